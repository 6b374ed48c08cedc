package frames

import (
	"slices"

	"github.com/goliatone/go-frames/pkg/activity"
)

// Structural operators work directly on frame shapes. They fire no demons.

// CompareFrames reports whether a and b have the same slot names.
func (r *Registry) CompareFrames(a, b string) bool {
	fa, okA := r.frames[a]
	fb, okB := r.frames[b]
	if !okA || !okB {
		return false
	}
	return slices.Equal(slotNames(fa), slotNames(fb))
}

// CompareSlot reports whether both frames hold slotName with the same facets
// and the same content in each of them.
func (r *Registry) CompareSlot(a, slotName, b string) bool {
	_, sa, okA := r.lookup(a, slotName)
	_, sb, okB := r.lookup(b, slotName)
	if !okA || !okB {
		return false
	}
	if !slices.Equal(sa.facets(), sb.facets()) {
		return false
	}
	if sa.ref != sb.ref || !slices.Equal(sa.value, sb.value) || !sameBody(sa.method, sb.method) {
		return false
	}
	for kind, body := range sa.demons {
		if !sameBody(body, sb.demons[kind]) {
			return false
		}
	}
	return true
}

// MergeInto copies every slot of src that dst lacks into dst. Slots dst
// already has are left alone.
func (r *Registry) MergeInto(src, dst string) bool {
	fs, okS := r.frames[src]
	fd, okD := r.frames[dst]
	if !okS || !okD {
		return false
	}
	for _, name := range slotNames(fs) {
		if _, exists := fd.slots[name]; exists {
			continue
		}
		fd.slots[name] = fs.slots[name].clone(r.nextGen())
		r.emit(activity.VerbSlotCreated, dst, name, "")
	}
	return true
}

// SyncShape makes dst hold exactly the slot names of src. Missing slots are
// added empty; content of slots both frames share is not touched.
func (r *Registry) SyncShape(src, dst string) bool {
	fs, okS := r.frames[src]
	fd, okD := r.frames[dst]
	if !okS || !okD {
		return false
	}
	for _, name := range slotNames(fd) {
		if _, keep := fs.slots[name]; !keep {
			delete(fd.slots, name)
			r.emit(activity.VerbSlotRemoved, dst, name, "")
		}
	}
	for _, name := range slotNames(fs) {
		if _, exists := fd.slots[name]; !exists {
			fd.slots[name] = newSlot(name, r.nextGen())
			r.emit(activity.VerbSlotCreated, dst, name, "")
		}
	}
	return true
}

// SubtractShape removes from dst every slot src also has.
func (r *Registry) SubtractShape(src, dst string) bool {
	fs, okS := r.frames[src]
	fd, okD := r.frames[dst]
	if !okS || !okD {
		return false
	}
	for _, name := range slotNames(fs) {
		if _, exists := fd.slots[name]; exists {
			delete(fd.slots, name)
			r.emit(activity.VerbSlotRemoved, dst, name, "")
		}
	}
	return true
}

// CloneFrame replaces dst with an independent copy of src, membership set
// included. dst is created when missing.
func (r *Registry) CloneFrame(src, dst string) bool {
	fs, ok := r.frames[src]
	if !ok || dst == "" {
		return false
	}
	if src == dst {
		return true
	}
	out := &frame{
		id:       dst,
		gen:      r.nextGen(),
		slots:    make(map[string]*slot, len(fs.slots)),
		frameset: fs.frameset,
	}
	if fs.frameset {
		out.members = make([]string, 0, len(fs.members))
		for _, member := range fs.members {
			if member != dst {
				out.members = append(out.members, member)
			}
		}
	}
	for name, s := range fs.slots {
		out.slots[name] = s.clone(r.nextGen())
	}
	r.frames[dst] = out
	r.emit(activity.VerbFrameCreated, dst, "", "")
	return true
}

// CloneSlot replaces slotName on dst with a copy of the slot on src.
func (r *Registry) CloneSlot(src, slotName, dst string) bool {
	_, s, ok := r.lookup(src, slotName)
	if !ok {
		return false
	}
	fd, ok := r.frames[dst]
	if !ok {
		return false
	}
	if src == dst {
		return true
	}
	fd.slots[slotName] = s.clone(r.nextGen())
	r.emit(activity.VerbSlotCreated, dst, slotName, "")
	return true
}
