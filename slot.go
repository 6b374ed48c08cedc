package frames

import (
	"sort"

	"github.com/goliatone/go-frames/pkg/activity"
)

// SlotExists reports whether frameID has a slot named slotName.
func (r *Registry) SlotExists(frameID, slotName string) bool {
	_, _, ok := r.lookup(frameID, slotName)
	return ok
}

// CreateSlot adds an empty slot to the frame.
func (r *Registry) CreateSlot(frameID, slotName string) bool {
	f, ok := r.frames[frameID]
	if !ok || slotName == "" {
		return false
	}
	if _, exists := f.slots[slotName]; exists {
		return false
	}
	f.slots[slotName] = newSlot(slotName, r.nextGen())
	r.emit(activity.VerbSlotCreated, frameID, slotName, "")
	return true
}

// RemoveSlot deletes the slot with its reference, primary content and demons.
func (r *Registry) RemoveSlot(frameID, slotName string) bool {
	f, ok := r.frames[frameID]
	if !ok {
		return false
	}
	if _, exists := f.slots[slotName]; !exists {
		return false
	}
	delete(f.slots, slotName)
	r.emit(activity.VerbSlotRemoved, frameID, slotName, "")
	return true
}

// ListSlots returns the frame's slot names in lexical order.
func (r *Registry) ListSlots(frameID string) []string {
	f, ok := r.frames[frameID]
	if !ok {
		return nil
	}
	return slotNames(f)
}

// ListFacets returns the facet names present on a slot: "ref", "method",
// "value" and the names of attached demons.
func (r *Registry) ListFacets(frameID, slotName string) []string {
	_, s, ok := r.lookup(frameID, slotName)
	if !ok {
		return nil
	}
	return s.facets()
}

// ListReferences returns the names of the frame's slots holding a reference.
func (r *Registry) ListReferences(frameID string) []string {
	f, ok := r.frames[frameID]
	if !ok {
		return nil
	}
	var out []string
	for name, s := range f.slots {
		if s.hasRef {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func slotNames(f *frame) []string {
	names := make([]string, 0, len(f.slots))
	for name := range f.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
