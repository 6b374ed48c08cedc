package frames

import "github.com/goliatone/go-frames/pkg/activity"

// Demon facets live on the slot itself; they are never delegated and no
// demon fires around their own lifecycle.

// DemonExists reports whether the slot carries a demon of kind.
func (r *Registry) DemonExists(frameID, slotName string, kind DemonKind) bool {
	_, _, ok := r.demonSlot(frameID, slotName, kind, true)
	return ok
}

// CreateDemon attaches an empty demon of kind to the slot.
func (r *Registry) CreateDemon(frameID, slotName string, kind DemonKind) bool {
	at, s, ok := r.demonSlot(frameID, slotName, kind, false)
	if !ok {
		return false
	}
	if _, exists := s.demons[kind]; exists {
		return false
	}
	s.demons[kind] = nil
	r.emit(activity.VerbFacetCreated, at.frameID, at.slotName, kind.String())
	return true
}

// RemoveDemon detaches the demon of kind.
func (r *Registry) RemoveDemon(frameID, slotName string, kind DemonKind) bool {
	at, s, ok := r.demonSlot(frameID, slotName, kind, true)
	if !ok {
		return false
	}
	delete(s.demons, kind)
	r.emit(activity.VerbFacetRemoved, at.frameID, at.slotName, kind.String())
	return true
}

// GetDemon returns the body attached under kind. A demon created but never
// assigned yields a nil body and true.
func (r *Registry) GetDemon(frameID, slotName string, kind DemonKind) (Body, bool) {
	_, s, ok := r.demonSlot(frameID, slotName, kind, true)
	if !ok {
		return nil, false
	}
	return s.demons[kind], true
}

// PutDemon stores body under an existing demon of kind.
func (r *Registry) PutDemon(frameID, slotName string, kind DemonKind, body Body) bool {
	at, s, ok := r.demonSlot(frameID, slotName, kind, true)
	if !ok {
		return false
	}
	s.demons[kind] = body
	r.emit(activity.VerbFacetUpdated, at.frameID, at.slotName, kind.String())
	return true
}

// ExecDemon runs the demon of kind directly with args, outside of the
// lifecycle action it normally precedes.
func (r *Registry) ExecDemon(frameID, slotName string, kind DemonKind, args ...string) bool {
	at, s, ok := r.demonSlot(frameID, slotName, kind, true)
	if !ok {
		return false
	}
	if body := s.demons[kind]; body != nil {
		_, _ = r.invoke(EventHook, body, CallContext{
			FrameID:  at.frameID,
			SlotName: at.slotName,
			Demon:    kind,
			Args:     append([]string{}, args...),
		})
	}
	return true
}

func (r *Registry) demonSlot(frameID, slotName string, kind DemonKind, mustExist bool) (slotRef, *slot, bool) {
	if !kind.Valid() {
		return slotRef{}, nil, false
	}
	at, s, ok := r.lookup(frameID, slotName)
	if !ok {
		return slotRef{}, nil, false
	}
	if mustExist {
		if _, exists := s.demons[kind]; !exists {
			return slotRef{}, nil, false
		}
	}
	return at, s, true
}
