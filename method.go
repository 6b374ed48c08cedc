package frames

import "github.com/goliatone/go-frames/pkg/activity"

// MethodExists reports whether a method is reachable through the slot.
func (r *Registry) MethodExists(frameID, slotName string) bool {
	return r.primaryExists(frameID, slotName, primaryMethod, visited{})
}

// CreateMethod adds an empty method facet, delegating through a reference
// when the slot has one.
func (r *Registry) CreateMethod(frameID, slotName string) bool {
	return r.createPrimary(frameID, slotName, primaryMethod)
}

// RemoveMethod removes the method facet reached through the slot.
func (r *Registry) RemoveMethod(frameID, slotName string) bool {
	return r.removePrimary(frameID, slotName, primaryMethod)
}

// GetMethod returns the body reached through the slot. An empty method
// facet yields a nil body and true.
func (r *Registry) GetMethod(frameID, slotName string) (Body, bool) {
	_, s, ok := r.touchPrimary(frameID, slotName, primaryMethod, opGet, nil)
	if !ok {
		return nil, false
	}
	return s.method, true
}

// PutMethod stores body in the method facet reached through the slot.
func (r *Registry) PutMethod(frameID, slotName string, body Body) bool {
	at, s, ok := r.touchPrimary(frameID, slotName, primaryMethod, opPut, bodyArgs(body))
	if !ok {
		return false
	}
	s.method = body
	r.emit(activity.VerbFacetUpdated, at.frameID, at.slotName, FacetMethod)
	return true
}

// ExecMethod runs the method reached through the slot. The body sees the
// frame the method was found on, which differs from frameID when the call
// was delegated. A failing body is logged and ExecMethod still reports true:
// the method existed and ran.
func (r *Registry) ExecMethod(frameID, slotName string, args ...string) bool {
	at, s, ok := r.touchPrimary(frameID, slotName, primaryMethod, opExec, args)
	if !ok {
		return false
	}
	body := s.method
	if body == nil {
		return true
	}
	kind := EventMethod
	if _, isExpr := body.(*Expression); isExpr {
		kind = EventExpression
	}
	_, _ = r.invoke(kind, body, CallContext{
		FrameID:  at.frameID,
		SlotName: at.slotName,
		Args:     append([]string{}, args...),
	})
	return true
}

// bodyArgs passes the incoming body's name to put demons, when it has one.
func bodyArgs(body Body) []string {
	if name := BodyName(body); name != "" {
		return []string{name}
	}
	return nil
}
