package frames

import "github.com/goliatone/go-frames/pkg/activity"

// createPrimary installs empty method or value content on the slot that
// frameID/slotName delegates to. Every slot on the way must be free of
// primary content.
func (r *Registry) createPrimary(frameID, slotName string, kind primaryKind) bool {
	at, ok := r.reach(frameID, slotName, visited{}, hasNoPrimary)
	if !ok {
		return false
	}
	r.fire(at, kind.demonFor(opCreate), nil)
	s, ok := r.live(at)
	if !ok || s.hasRef || s.primary != primaryNone {
		return false
	}
	s.primary = kind
	switch kind {
	case primaryValue:
		s.value = []string{}
	case primaryMethod:
		s.method = nil
	}
	r.emit(activity.VerbFacetCreated, at.frameID, at.slotName, kind.facet())
	return true
}

func (r *Registry) removePrimary(frameID, slotName string, kind primaryKind) bool {
	at, ok := r.reach(frameID, slotName, visited{}, nil)
	if !ok {
		return false
	}
	if s, _ := r.live(at); s == nil || s.primary != kind {
		return false
	}
	r.fire(at, kind.demonFor(opRemove), nil)
	s, ok := r.live(at)
	if !ok || s.primary != kind {
		return false
	}
	s.primary = primaryNone
	s.method = nil
	s.value = nil
	r.emit(activity.VerbFacetRemoved, at.frameID, at.slotName, kind.facet())
	return true
}

// touchPrimary resolves the content slot, checks it holds kind, fires the
// demon for op and returns the slot as it stands after the demon ran.
func (r *Registry) touchPrimary(frameID, slotName string, kind primaryKind, op lifecycleOp, args []string) (slotRef, *slot, bool) {
	at, ok := r.reach(frameID, slotName, visited{}, nil)
	if !ok {
		return slotRef{}, nil, false
	}
	if s, _ := r.live(at); s == nil || s.primary != kind {
		return slotRef{}, nil, false
	}
	r.fire(at, kind.demonFor(op), args)
	s, ok := r.live(at)
	if !ok || s.primary != kind {
		return slotRef{}, nil, false
	}
	return at, s, true
}
