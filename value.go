package frames

import "github.com/goliatone/go-frames/pkg/activity"

// ValueExists reports whether a value is reachable through the slot, either
// locally or through its reference. Fires ifref per hop and ifexistv where
// the value is found.
func (r *Registry) ValueExists(frameID, slotName string) bool {
	return r.primaryExists(frameID, slotName, primaryValue, visited{})
}

// CreateValue adds an empty value facet. With a reference on the slot the
// value is created on the referenced frame instead.
func (r *Registry) CreateValue(frameID, slotName string) bool {
	return r.createPrimary(frameID, slotName, primaryValue)
}

// RemoveValue removes the value facet reached through the slot.
func (r *Registry) RemoveValue(frameID, slotName string) bool {
	return r.removePrimary(frameID, slotName, primaryValue)
}

// GetValue returns a copy of the token sequence reached through the slot.
func (r *Registry) GetValue(frameID, slotName string) ([]string, bool) {
	_, s, ok := r.touchPrimary(frameID, slotName, primaryValue, opGet, nil)
	if !ok {
		return nil, false
	}
	return append([]string{}, s.value...), true
}

// PutValue replaces the token sequence reached through the slot.
func (r *Registry) PutValue(frameID, slotName string, tokens ...string) bool {
	value := append([]string{}, tokens...)
	at, s, ok := r.touchPrimary(frameID, slotName, primaryValue, opPut, value)
	if !ok {
		return false
	}
	s.value = value
	r.emit(activity.VerbFacetUpdated, at.frameID, at.slotName, FacetValue)
	return true
}

// localValues snapshots the frame's own value facets for expression bodies.
func (r *Registry) localValues(frameID string) map[string]any {
	f, ok := r.frames[frameID]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(f.slots))
	for name, s := range f.slots {
		if s.primary == primaryValue {
			out[name] = append([]string{}, s.value...)
		}
	}
	return out
}
