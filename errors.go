package frames

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEvaluator is returned when no expression engine could be built.
	ErrNoEvaluator = errors.New("frames: evaluator not configured")
	// ErrEmptyExpression rejects blank expression sources.
	ErrEmptyExpression = errors.New("frames: expression must not be empty")
	// ErrUnresolvedBody is returned by placeholder bodies whose persisted
	// name was not found in the method table.
	ErrUnresolvedBody = errors.New("frames: unresolved body")
	// ErrBodyPanic marks a body that panicked while running.
	ErrBodyPanic = errors.New("frames: body panicked")
)

// BodyError captures where a failing body ran alongside the originating error.
type BodyError struct {
	Engine string
	Name   string
	Source string
	Frame  string
	Slot   string
	Demon  DemonKind
	Err    error
}

func (e *BodyError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := fmt.Sprintf("frame=%s slot=%s", e.Frame, e.Slot)
	if e.Demon != DemonNone {
		where += " demon=" + e.Demon.String()
	}
	if e.Name != "" {
		where += fmt.Sprintf(" body=%q", e.Name)
	}
	if e.Engine != "" {
		return fmt.Sprintf("frames: %s body %s %s: %v", e.Engine, describeSource(e.Source), where, e.Err)
	}
	return fmt.Sprintf("frames: body %s: %v", where, e.Err)
}

func (e *BodyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeSource(source string) string {
	if source == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", source)
}

// wrapBodyError decorates err with the call site. An existing BodyError is
// copied with its empty fields filled in; the original is left untouched.
func wrapBodyError(body Body, call CallContext, err error) error {
	if err == nil {
		return nil
	}
	engine, source := "", ""
	if expr, ok := body.(interface {
		Engine() string
		Source() string
	}); ok {
		engine, source = expr.Engine(), expr.Source()
	}

	var bodyErr *BodyError
	if errors.As(err, &bodyErr) && bodyErr != nil {
		filled := *bodyErr
		if filled.Engine == "" {
			filled.Engine = engine
		}
		if filled.Source == "" {
			filled.Source = source
		}
		if filled.Frame == "" {
			filled.Frame = call.FrameID
		}
		if filled.Slot == "" {
			filled.Slot = call.SlotName
		}
		if filled.Demon == DemonNone {
			filled.Demon = call.Demon
		}
		return &filled
	}
	return &BodyError{
		Engine: engine,
		Name:   BodyName(body),
		Source: source,
		Frame:  call.FrameID,
		Slot:   call.SlotName,
		Demon:  call.Demon,
		Err:    err,
	}
}

var errMissingEvaluator = errors.New("compiled rule missing evaluator")

// wrapEvaluatorError prefixes engine setup failures.
func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var bodyErr *BodyError
	if errors.As(err, &bodyErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "frames:") {
		return err
	}
	return fmt.Errorf("frames: %s evaluator: %w", engine, err)
}

// wrapEvaluationError attaches the engine and source to a compile or run
// failure. The call site is filled in later, when the body is invoked.
func wrapEvaluationError(engine, source string, err error) error {
	if err == nil {
		return nil
	}
	var bodyErr *BodyError
	if errors.As(err, &bodyErr) && bodyErr != nil {
		filled := *bodyErr
		if filled.Engine == "" {
			filled.Engine = engine
		}
		if filled.Source == "" {
			filled.Source = source
		}
		return &filled
	}
	return &BodyError{
		Engine: engine,
		Source: source,
		Err:    err,
	}
}
