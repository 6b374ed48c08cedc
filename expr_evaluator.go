package frames

import (
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes the functions in registry to expressions,
// each under its own name and through call(name, args...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry != nil {
			e.functions = registry.Clone()
		}
	}
}

type exprEvaluator struct {
	cache     ProgramCache
	functions *FunctionRegistry
	options   []exprlang.Option
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr. It is
// the default engine.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.options = e.compileOptions()
	return e
}

// compileOptions declares the call environment. Undefined identifiers
// evaluate to nil so bodies may probe optional values.
func (e *exprEvaluator) compileOptions() []exprlang.Option {
	env := map[string]any{
		"frame":  "",
		"slot":   "",
		"demon":  "",
		"args":   []string{},
		"values": map[string]any{},
		"now":    time.Time{},
	}
	options := []exprlang.Option{exprlang.Env(env), exprlang.AllowUndefinedVariables()}
	if e.functions == nil {
		return options
	}
	functions := e.functions
	options = append(options, exprlang.Function("call", func(arguments ...any) (any, error) {
		return callByName(functions, arguments)
	}))
	for _, name := range functions.Names() {
		fnName := name
		options = append(options, exprlang.Function(fnName, func(arguments ...any) (any, error) {
			return functions.Call(fnName, arguments...)
		}))
	}
	return options
}

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

// Compile parses expression once, reusing a cached program when the cache
// already holds one for this evaluator.
func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(EngineExpr, ErrEmptyExpression)
	}
	key := cacheKey(EngineExpr, e, expression)
	if e.cache != nil {
		if program, ok := e.cache.Get(key); ok {
			if compiled, ok := program.(*exprvm.Program); ok {
				return exprRule{source: expression, program: compiled}, nil
			}
		}
	}
	program, err := exprlang.Compile(expression, e.options...)
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, expression, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return exprRule{source: expression, program: program}, nil
}

type exprRule struct {
	source  string
	program *exprvm.Program
}

func (r exprRule) Evaluate(ctx RuleContext) (any, error) {
	if r.program == nil {
		return nil, wrapEvaluatorError(EngineExpr, errMissingEvaluator)
	}
	out, err := exprlang.Run(r.program, ctx.binding())
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, r.source, err)
	}
	return out, nil
}
