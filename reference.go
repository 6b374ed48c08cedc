package frames

import "github.com/goliatone/go-frames/pkg/activity"

// ReferenceExists reports whether the slot holds a reference facet.
// Fires ifexistr when it does.
func (r *Registry) ReferenceExists(frameID, slotName string) bool {
	at, s, ok := r.lookup(frameID, slotName)
	if !ok || !s.hasRef {
		return false
	}
	r.fire(at, IfExistR, nil)
	return true
}

// CreateReference adds an empty reference facet. It fails while the slot
// holds a method or value, or already holds a reference.
func (r *Registry) CreateReference(frameID, slotName string) bool {
	at, s, ok := r.lookup(frameID, slotName)
	if !ok || s.hasRef || s.primary != primaryNone {
		return false
	}
	r.fire(at, IfCreateR, nil)
	s, ok = r.live(at)
	if !ok || s.hasRef || s.primary != primaryNone {
		return false
	}
	s.hasRef = true
	s.ref = ""
	r.emit(activity.VerbFacetCreated, frameID, slotName, FacetReference)
	return true
}

// RemoveReference clears the reference facet. Primary content is untouched.
func (r *Registry) RemoveReference(frameID, slotName string) bool {
	at, s, ok := r.lookup(frameID, slotName)
	if !ok || !s.hasRef {
		return false
	}
	r.fire(at, IfRemoveR, nil)
	s, ok = r.live(at)
	if !ok || !s.hasRef {
		return false
	}
	s.hasRef = false
	s.ref = ""
	r.emit(activity.VerbFacetRemoved, frameID, slotName, FacetReference)
	return true
}

// GetReference returns the frame id the slot delegates to.
func (r *Registry) GetReference(frameID, slotName string) (string, bool) {
	at, s, ok := r.lookup(frameID, slotName)
	if !ok || !s.hasRef {
		return "", false
	}
	r.fire(at, IfGetR, nil)
	s, ok = r.live(at)
	if !ok || !s.hasRef {
		return "", false
	}
	return s.ref, true
}

// PutReference points an existing reference facet at target.
func (r *Registry) PutReference(frameID, slotName, target string) bool {
	at, s, ok := r.lookup(frameID, slotName)
	if !ok || !s.hasRef {
		return false
	}
	r.fire(at, IfPutR, []string{target})
	s, ok = r.live(at)
	if !ok || !s.hasRef {
		return false
	}
	s.ref = target
	r.emit(activity.VerbFacetUpdated, frameID, slotName, FacetReference)
	return true
}

// ReferenceChain lists the frames visited by following the slot's reference
// from frameID. The walk stops at a slot without a reference, at a missing
// frame or slot, or before revisiting a frame already on the path. No demons
// fire.
func (r *Registry) ReferenceChain(frameID, slotName string) []string {
	path := []string{}
	seen := map[string]struct{}{}
	current := frameID
	for {
		_, s, ok := r.lookup(current, slotName)
		if !ok {
			return path
		}
		path = append(path, current)
		seen[current] = struct{}{}
		if !s.hasRef {
			return path
		}
		if _, visited := seen[s.ref]; visited {
			return path
		}
		current = s.ref
	}
}
