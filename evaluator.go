package frames

import (
	"fmt"
	"time"
)

// RuleContext is the environment an expression body evaluates against.
type RuleContext struct {
	Frame  string
	Slot   string
	Demon  string
	Args   []string
	Values map[string]any
	Now    *time.Time
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = []string{}
	}
	if ctx.Values == nil {
		ctx.Values = map[string]any{}
	}
	return ctx
}

// binding is the variable set every engine exposes.
func (ctx RuleContext) binding() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"frame":  ctx.Frame,
		"slot":   ctx.Slot,
		"demon":  ctx.Demon,
		"args":   ctx.Args,
		"values": ctx.Values,
		"now":    *ctx.Now,
	}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// Engine names accepted by WithEngine and NewEngine.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// NewEngine builds the named evaluator wired to functions and cache. It
// returns ErrNoEvaluator for unknown names, and for "js" when the binary
// was built without the js_eval tag.
func NewEngine(name string, functions *FunctionRegistry, cache ProgramCache) (Evaluator, error) {
	var evaluator Evaluator
	switch name {
	case "", EngineExpr:
		evaluator = NewExprEvaluator(ExprWithFunctionRegistry(functions), ExprWithProgramCache(cache))
	case EngineCEL:
		evaluator = NewCELEvaluator(CELWithFunctionRegistry(functions), CELWithProgramCache(cache))
	case EngineJS:
		evaluator = NewJSEvaluator(JSWithFunctionRegistry(functions), JSWithProgramCache(cache))
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

// EngineName reports which built-in engine e is.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return EngineExpr
	case *celEvaluator:
		return EngineCEL
	default:
		if jsEngine(e) {
			return EngineJS
		}
		return "custom"
	}
}

// cacheKey scopes cached programs to the evaluator that compiled them, since
// registry functions are bound into the program.
func cacheKey(engine string, owner Evaluator, expression string) string {
	return fmt.Sprintf("%s:%p:%s", engine, owner, expression)
}

// JSEvaluatorOption configures the goja engine, available with the js_eval
// build tag.
type JSEvaluatorOption func(*jsSettings)

type jsSettings struct {
	cache     ProgramCache
	functions *FunctionRegistry
}

// JSWithProgramCache shares compiled goja programs through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) { s.cache = cache }
}

// JSWithFunctionRegistry exposes a copy of functions to scripts.
func JSWithFunctionRegistry(functions *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) { s.functions = functions.Clone() }
}

func newJSSettings(opts []JSEvaluatorOption) jsSettings {
	var s jsSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
