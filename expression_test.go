package frames

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

var engines = []string{EngineExpr, EngineCEL}

func TestNewEngine(t *testing.T) {
	for _, name := range engines {
		evaluator, err := NewEngine(name, nil, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if EngineName(evaluator) != name {
			t.Fatalf("expected %s, got %s", name, EngineName(evaluator))
		}
	}
	if _, err := NewEngine("lua", nil, nil); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}

func TestEvaluatorsSeeRuleContext(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := RuleContext{
		Frame: "apple",
		Slot:  "color",
		Demon: "ifputv",
		Args:  []string{"red"},
		Now:   &now,
	}
	for _, name := range engines {
		t.Run(name, func(t *testing.T) {
			evaluator, _ := NewEngine(name, nil, NewMapProgramCache())
			out, err := evaluator.Evaluate(ctx, `frame == "apple" && slot == "color" && demon == "ifputv" && args[0] == "red"`)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if out != true {
				t.Fatalf("expected true, got %v", out)
			}
			source := `size(args)`
			if name == EngineExpr {
				source = `len(args)`
			}
			rule, err := evaluator.Compile(source)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			count, err := rule.Evaluate(RuleContext{Args: []string{"a", "b"}})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if n, ok := count.(int); ok && n != 2 {
				t.Fatalf("expected 2, got %v", count)
			}
			if n, ok := count.(int64); ok && n != 2 {
				t.Fatalf("expected 2, got %v", count)
			}
		})
	}
}

func TestEvaluatorRejectsEmptyAndBrokenSources(t *testing.T) {
	for _, name := range engines {
		evaluator, _ := NewEngine(name, nil, nil)
		if _, err := evaluator.Evaluate(RuleContext{}, ""); !errors.Is(err, ErrEmptyExpression) {
			t.Fatalf("%s: expected ErrEmptyExpression, got %v", name, err)
		}
		_, err := evaluator.Compile("frame ==")
		var bodyErr *BodyError
		if !errors.As(err, &bodyErr) {
			t.Fatalf("%s: expected BodyError, got %T", name, err)
		}
		if bodyErr.Engine != name || bodyErr.Source != "frame ==" {
			t.Fatalf("%s: unexpected metadata %+v", name, bodyErr)
		}
	}
}

func TestExpressionMethodsReachRegistry(t *testing.T) {
	for _, name := range engines {
		t.Run(name, func(t *testing.T) {
			r := New(WithEngine(name))
			r.CreateFrame("apple")
			mustValue(t, r, "apple", "status")
			r.CreateSlot("apple", "touch")
			r.CreateMethod("apple", "touch")

			expr, err := r.Expression("touch", `putValue(frame, "status", "seen")`)
			if err != nil {
				t.Fatalf("expression: %v", err)
			}
			if expr.Engine() != name || expr.Name() != "touch" {
				t.Fatalf("unexpected expression metadata %s %s", expr.Engine(), expr.Name())
			}
			if !r.Methods().Has("touch") {
				t.Fatalf("expected named expression in the method table")
			}
			r.PutMethod("apple", "touch", expr)
			if !r.ExecMethod("apple", "touch") {
				t.Fatalf("expected exec")
			}
			if got, _ := r.GetValue("apple", "status"); !slices.Equal(got, []string{"seen"}) {
				t.Fatalf("expected the expression to write, got %v", got)
			}
		})
	}
}

func TestExpressionSeesLocalValues(t *testing.T) {
	r := New()
	r.CreateFrame("apple")
	mustValue(t, r, "apple", "color", "red")
	mustValue(t, r, "apple", "ripe")
	r.CreateSlot("apple", "check")
	r.CreateMethod("apple", "check")

	expr, err := r.Expression("", `values.color[0] == "red" ? putValue(frame, "ripe", "yes") : false`)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	if r.Methods().Has("") {
		t.Fatalf("expected anonymous expressions to stay out of the table")
	}
	r.PutMethod("apple", "check", expr)
	r.ExecMethod("apple", "check")
	if got, _ := r.GetValue("apple", "ripe"); !slices.Equal(got, []string{"yes"}) {
		t.Fatalf("expected values to be visible, got %v", got)
	}
}

func TestExpressionDemon(t *testing.T) {
	r := New()
	r.CreateFrame("apple")
	mustValue(t, r, "apple", "audit")
	r.CreateSlot("apple", "color")
	r.CreateValue("apple", "color")

	expr, err := r.Expression("audit", `demon == "ifputv" && putValue(frame, "audit", slot, args)`)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	mustDemon(t, r, "apple", "color", IfPutV, expr)
	r.PutValue("apple", "color", "red", "green")

	if got, _ := r.GetValue("apple", "audit"); !slices.Equal(got, []string{"color", "red", "green"}) {
		t.Fatalf("unexpected audit %v", got)
	}
}

func TestCustomFunctions(t *testing.T) {
	shout := func(args ...any) (any, error) {
		s, _ := args[0].(string)
		return strings.ToUpper(s), nil
	}
	for _, name := range engines {
		t.Run(name, func(t *testing.T) {
			r := New(WithEngine(name), WithFunction("shout", shout))
			r.CreateFrame("apple")
			mustValue(t, r, "apple", "loud")
			r.CreateSlot("apple", "yell")
			r.CreateMethod("apple", "yell")
			expr, err := r.Expression("", `putValue(frame, "loud", shout(frame)) && call("frameExists", frame)`)
			if err != nil {
				t.Fatalf("expression: %v", err)
			}
			r.PutMethod("apple", "yell", expr)
			r.ExecMethod("apple", "yell")
			if got, _ := r.GetValue("apple", "loud"); !slices.Equal(got, []string{"APPLE"}) {
				t.Fatalf("unexpected value %v", got)
			}
		})
	}
}

func TestFailingExpressionIsLogged(t *testing.T) {
	log := &eventLog{}
	r := New(WithLogger(log))
	r.CreateFrame("apple")
	r.CreateSlot("apple", "broken")
	r.CreateMethod("apple", "broken")
	expr, err := r.Expression("broken", `getValue("only-one-arg")`)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	r.PutMethod("apple", "broken", expr)

	if !r.ExecMethod("apple", "broken") {
		t.Fatalf("expected exec to report true")
	}
	events := log.kind(EventExpression)
	if len(events) != 1 || events[0].OK {
		t.Fatalf("expected one failed expression event, got %+v", events)
	}
	var bodyErr *BodyError
	if !errors.As(events[0].Err, &bodyErr) {
		t.Fatalf("expected BodyError, got %T", events[0].Err)
	}
	if bodyErr.Frame != "apple" || bodyErr.Slot != "broken" || bodyErr.Engine != EngineExpr {
		t.Fatalf("unexpected metadata %+v", bodyErr)
	}
	if !strings.Contains(bodyErr.Error(), `expr="getValue(\"only-one-arg\")"`) {
		t.Fatalf("expected source in message, got %q", bodyErr.Error())
	}
}

func TestRegistryEvaluatorSelection(t *testing.T) {
	if _, err := New(WithEngine("lua")).Expression("", "true"); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
	custom := NewCELEvaluator()
	r := New(WithEvaluator(custom), WithEngine(EngineExpr))
	evaluator, err := r.Evaluator()
	if err != nil || evaluator != custom {
		t.Fatalf("expected the explicit evaluator to win")
	}
	if _, err := r.Expression("", "  "); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
}

func TestProgramCacheIsScopedPerEvaluator(t *testing.T) {
	cache := NewMapProgramCache()
	first := New(WithProgramCache(cache))
	second := New(WithProgramCache(cache))
	for _, r := range []*Registry{first, second} {
		r.CreateFrame("apple")
		mustValue(t, r, "apple", "status")
		r.CreateSlot("apple", "touch")
		r.CreateMethod("apple", "touch")
		expr, err := r.Expression("", `putValue(frame, "status", "ok")`)
		if err != nil {
			t.Fatalf("expression: %v", err)
		}
		r.PutMethod("apple", "touch", expr)
	}
	second.ExecMethod("apple", "touch")
	if got, _ := first.GetValue("apple", "status"); len(got) != 0 {
		t.Fatalf("expected first registry untouched, got %v", got)
	}
	if got, _ := second.GetValue("apple", "status"); !slices.Equal(got, []string{"ok"}) {
		t.Fatalf("expected second registry written, got %v", got)
	}
}

func TestFunctionRegistry(t *testing.T) {
	fns := NewFunctionRegistry()
	echo := func(args ...any) (any, error) { return args, nil }
	if err := fns.Register("sayHello", echo); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := fns.Register("SAYHELLO", echo); err == nil {
		t.Fatalf("expected case-insensitive duplicate to fail")
	}
	if err := fns.Register("", echo); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := fns.Register("nil", nil); err == nil {
		t.Fatalf("expected nil function to fail")
	}
	if !fns.Has("sayhello") || !slices.Equal(fns.Names(), []string{"sayHello"}) {
		t.Fatalf("unexpected registry state %v", fns.Names())
	}
	if _, err := callByName(fns, nil); err == nil {
		t.Fatalf("expected call without name to fail")
	}
	if _, err := callByName(fns, []any{"missing"}); err == nil {
		t.Fatalf("expected unknown function to fail")
	}

	other := NewFunctionRegistry()
	_ = other.Register("sayHello", func(...any) (any, error) { return "other", nil })
	_ = other.Register("wave", echo)
	fns.Merge(other)
	out, _ := fns.Call("sayHello", "x")
	if args, ok := out.([]any); !ok || len(args) != 1 {
		t.Fatalf("expected merge to keep existing entries, got %v", out)
	}
	if !fns.Has("wave") {
		t.Fatalf("expected merge to add new entries")
	}
}
