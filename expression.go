package frames

import (
	"fmt"
	"strings"
)

// Expression is a Body compiled from an expression source. It evaluates with
// the frame, slot, demon and args of the call, plus "values", a snapshot of
// the frame's own value facets.
type Expression struct {
	name   string
	source string
	engine string
	rule   CompiledRule
}

// NewExpression compiles source with evaluator.
func NewExpression(evaluator Evaluator, name, source string) (*Expression, error) {
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyExpression
	}
	rule, err := evaluator.Compile(source)
	if err != nil {
		return nil, err
	}
	return &Expression{
		name:   name,
		source: source,
		engine: EngineName(evaluator),
		rule:   rule,
	}, nil
}

func (e *Expression) Name() string   { return e.name }
func (e *Expression) Source() string { return e.source }
func (e *Expression) Engine() string { return e.engine }

// Invoke implements Body.
func (e *Expression) Invoke(call CallContext) (any, error) {
	if e == nil || e.rule == nil {
		return nil, ErrNoEvaluator
	}
	ctx := RuleContext{
		Frame: call.FrameID,
		Slot:  call.SlotName,
		Args:  append([]string{}, call.Args...),
	}
	if call.Demon != DemonNone {
		ctx.Demon = call.Demon.String()
	}
	if call.Registry != nil {
		ctx.Values = call.Registry.localValues(call.FrameID)
	}
	return e.rule.Evaluate(ctx)
}

// Expression compiles source with the registry's engine. A named expression
// is also registered in the method table, replacing any body under that
// name, so frames holding it survive an export and import.
func (r *Registry) Expression(name, source string) (*Expression, error) {
	evaluator, err := r.Evaluator()
	if err != nil {
		return nil, err
	}
	expr, err := NewExpression(evaluator, name, source)
	if err != nil {
		return nil, err
	}
	if name != "" {
		r.methods.Replace(name, expr)
	}
	return expr, nil
}

// Evaluator returns the engine expression bodies compile with: the one given
// to WithEvaluator, else the engine named by WithEngine (expr by default)
// wired to Builtins and the program cache.
func (r *Registry) Evaluator() (Evaluator, error) {
	if r.evaluator != nil {
		return r.evaluator, nil
	}
	if r.cfg.evaluator != nil {
		r.evaluator = r.cfg.evaluator
		return r.evaluator, nil
	}
	evaluator, err := NewEngine(r.cfg.engine, r.Builtins(), r.cfg.programCache)
	if err != nil {
		return nil, fmt.Errorf("%w: engine %q", err, r.cfg.engine)
	}
	r.evaluator = evaluator
	return evaluator, nil
}
