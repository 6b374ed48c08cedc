package frames

// visited tracks the frames one delegated call has passed through so a
// reference loop fails the call instead of recursing forever.
type visited map[string]struct{}

func (v visited) add(frameID string) {
	v[frameID] = struct{}{}
}

func (v visited) has(frameID string) bool {
	_, ok := v[frameID]
	return ok
}

// hop fires ifref on the slot at and returns the frame its reference points
// to. The reference is read after the demon ran.
func (r *Registry) hop(at slotRef, seen visited) (string, bool) {
	s, ok := r.live(at)
	if !ok || !s.hasRef {
		return "", false
	}
	if seen.has(s.ref) {
		r.anomaly("delegate", at, "reference loop through "+s.ref)
		return "", false
	}
	r.fire(at, IfRef, []string{s.ref})
	s, ok = r.live(at)
	if !ok || !s.hasRef || seen.has(s.ref) {
		return "", false
	}
	return s.ref, true
}

// reach follows references from frameID until it lands on a slot without
// one, which is where method and value content is read or written. guard,
// when set, is checked on every slot along the way.
func (r *Registry) reach(frameID, slotName string, seen visited, guard func(*slot) bool) (slotRef, bool) {
	current := frameID
	for {
		at, s, ok := r.lookup(current, slotName)
		if !ok || (guard != nil && !guard(s)) {
			return slotRef{}, false
		}
		seen.add(current)
		if !s.hasRef {
			return at, true
		}
		next, ok := r.hop(at, seen)
		if !ok {
			return slotRef{}, false
		}
		current = next
	}
}

func hasNoPrimary(s *slot) bool {
	return s.primary == primaryNone
}

// primaryExists answers MethodExists and ValueExists. The reference is
// followed and the local slot is checked independently; local content wins.
// Both being present breaks the exclusivity invariant and is logged.
func (r *Registry) primaryExists(frameID, slotName string, kind primaryKind, seen visited) bool {
	at, s, ok := r.lookup(frameID, slotName)
	if !ok {
		return false
	}
	seen.add(frameID)
	found := false
	if s.hasRef {
		if target, ok := r.hop(at, seen); ok {
			found = r.primaryExists(target, slotName, kind, seen)
		}
		if s, ok = r.live(at); !ok {
			return found
		}
	}
	if s.primary == kind {
		if s.hasRef {
			r.anomaly("exists", at, "slot holds both a reference and "+kind.facet()+" content")
		}
		r.fire(at, kind.demonFor(opExist), nil)
		found = true
	}
	return found
}
