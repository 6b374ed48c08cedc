package frames

import (
	"slices"
	"sort"

	"github.com/goliatone/go-frames/pkg/activity"
)

// Frameset is a handle for frameset-scoped operations on the frame id.
// Structural mutations run on the frameset frame first and, when that
// succeeds, on every member in membership order. Per-member outcomes are
// logged and never change the result.
//
// The handle works on plain frames too; they simply have no members.
type Frameset struct {
	r  *Registry
	id string
}

// Frameset returns the frameset handle for id. The frame does not have to
// exist yet.
func (r *Registry) Frameset(id string) Frameset {
	return Frameset{r: r, id: id}
}

// ID returns the frameset frame id.
func (fs Frameset) ID() string {
	return fs.id
}

// Include adds member to the membership set. Including a frame that is
// already a member succeeds without duplicating it.
func (fs Frameset) Include(member string) bool {
	f, ok := fs.r.frames[fs.id]
	if !ok || !f.frameset || member == fs.id || !fs.r.FrameExists(member) {
		return false
	}
	if slices.Contains(f.members, member) {
		return true
	}
	f.members = append(f.members, member)
	fs.r.emit(activity.VerbFramesetIncluded, fs.id, "", member)
	return true
}

// Exclude drops member from the membership set.
func (fs Frameset) Exclude(member string) bool {
	f, ok := fs.r.frames[fs.id]
	if !ok || !f.frameset {
		return false
	}
	idx := slices.Index(f.members, member)
	if idx < 0 {
		return false
	}
	f.members = slices.Delete(f.members, idx, idx+1)
	fs.r.emit(activity.VerbFramesetExcluded, fs.id, "", member)
	return true
}

// Members returns the membership in inclusion order. Ids of removed frames
// are kept until excluded.
func (fs Frameset) Members() []string {
	f, ok := fs.r.frames[fs.id]
	if !ok || !f.frameset {
		return nil
	}
	return append([]string{}, f.members...)
}

// MemberOf lists the framesets whose membership contains id.
func (r *Registry) MemberOf(id string) []string {
	var out []string
	for fsID, f := range r.frames {
		if f.frameset && slices.Contains(f.members, id) {
			out = append(out, fsID)
		}
	}
	sort.Strings(out)
	return out
}

func (fs Frameset) propagate(op, slotName string, apply func(frameID string) bool) bool {
	if !apply(fs.id) {
		return false
	}
	for _, member := range fs.Members() {
		ok := apply(member)
		fs.r.log(LogEvent{
			Kind:   EventPropagation,
			Op:     op,
			Frame:  fs.id,
			Slot:   slotName,
			Target: member,
			OK:     ok,
		})
	}
	return true
}

// CreateSlot creates slotName on the frameset and its members.
func (fs Frameset) CreateSlot(slotName string) bool {
	return fs.propagate("createSlot", slotName, func(id string) bool {
		return fs.r.CreateSlot(id, slotName)
	})
}

// RemoveSlot removes slotName from the frameset and its members.
func (fs Frameset) RemoveSlot(slotName string) bool {
	return fs.propagate("removeSlot", slotName, func(id string) bool {
		return fs.r.RemoveSlot(id, slotName)
	})
}

func (fs Frameset) CreateDemon(slotName string, kind DemonKind) bool {
	return fs.propagate("createDemon", slotName, func(id string) bool {
		return fs.r.CreateDemon(id, slotName, kind)
	})
}

func (fs Frameset) RemoveDemon(slotName string, kind DemonKind) bool {
	return fs.propagate("removeDemon", slotName, func(id string) bool {
		return fs.r.RemoveDemon(id, slotName, kind)
	})
}

func (fs Frameset) CreateMethod(slotName string) bool {
	return fs.propagate("createMethod", slotName, func(id string) bool {
		return fs.r.CreateMethod(id, slotName)
	})
}

func (fs Frameset) RemoveMethod(slotName string) bool {
	return fs.propagate("removeMethod", slotName, func(id string) bool {
		return fs.r.RemoveMethod(id, slotName)
	})
}

func (fs Frameset) CreateReference(slotName string) bool {
	return fs.propagate("createReference", slotName, func(id string) bool {
		return fs.r.CreateReference(id, slotName)
	})
}

func (fs Frameset) RemoveReference(slotName string) bool {
	return fs.propagate("removeReference", slotName, func(id string) bool {
		return fs.r.RemoveReference(id, slotName)
	})
}

func (fs Frameset) CreateValue(slotName string) bool {
	return fs.propagate("createValue", slotName, func(id string) bool {
		return fs.r.CreateValue(id, slotName)
	})
}

func (fs Frameset) RemoveValue(slotName string) bool {
	return fs.propagate("removeValue", slotName, func(id string) bool {
		return fs.r.RemoveValue(id, slotName)
	})
}

// GetReference reads the reference of the frameset frame only.
func (fs Frameset) GetReference(slotName string) (string, bool) {
	return fs.r.GetReference(fs.id, slotName)
}

// PutReference points the frameset's reference at target and then forces the
// same reference onto every member slot, creating the reference facet where
// it is missing. Members without the slot, or whose slot holds method or
// value content, are skipped.
func (fs Frameset) PutReference(slotName, target string) bool {
	return fs.propagate("putReference", slotName, func(id string) bool {
		if id == fs.id {
			return fs.r.PutReference(id, slotName, target)
		}
		_, s, ok := fs.r.lookup(id, slotName)
		if !ok || s.primary != primaryNone {
			return false
		}
		if !s.hasRef && !fs.r.CreateReference(id, slotName) {
			return false
		}
		return fs.r.PutReference(id, slotName, target)
	})
}
