package frames

import (
	"fmt"
	"reflect"
)

// CallContext is handed to every method or demon body when it runs.
type CallContext struct {
	Registry *Registry
	FrameID  string
	SlotName string
	Demon    DemonKind
	Args     []string
}

// Body is an executable unit stored in a method or demon facet. Bodies may
// call back into the Registry found on the context.
type Body interface {
	Invoke(call CallContext) (any, error)
}

// BodyFunc adapts a plain function to Body.
type BodyFunc func(call CallContext) (any, error)

// Invoke implements Body.
func (f BodyFunc) Invoke(call CallContext) (any, error) {
	if f == nil {
		return nil, nil
	}
	return f(call)
}

// Action wraps fn as a Body that returns no result. Handy for demons.
func Action(fn func(call CallContext)) Body {
	return BodyFunc(func(call CallContext) (any, error) {
		if fn != nil {
			fn(call)
		}
		return nil, nil
	})
}

type namedBody struct {
	name string
	body Body
}

// Named attaches name to body. Named bodies survive persistence: they are
// exported by name and re-bound through the MethodTable on import.
func Named(name string, body Body) Body {
	if existing, ok := body.(namedBody); ok {
		body = existing.body
	}
	return namedBody{name: name, body: body}
}

func (b namedBody) Name() string {
	return b.name
}

func (b namedBody) Invoke(call CallContext) (any, error) {
	if b.body == nil {
		return nil, nil
	}
	return b.body.Invoke(call)
}

// BodyName returns the name carried by body, or "" when it has none.
func BodyName(body Body) string {
	if named, ok := body.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}

// unresolvedBody stands in for a persisted body name the method table does
// not know about.
type unresolvedBody struct {
	name string
}

func (b unresolvedBody) Name() string {
	return b.name
}

func (b unresolvedBody) Invoke(CallContext) (any, error) {
	return nil, fmt.Errorf("%w: %q", ErrUnresolvedBody, b.name)
}

func sameBody(a, b Body) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	nameA, nameB := BodyName(a), BodyName(b)
	if nameA != "" || nameB != "" {
		return nameA == nameB
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	// Interface fields holding slices or maps make == panic.
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}
