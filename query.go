package frames

import "slices"

// Find lists the frames where a value is reachable through slotName.
// Lookups go through ValueExists, so references are followed and demons
// fire as usual.
func (r *Registry) Find(slotName string) []string {
	return r.findWhere(slotName, func([]string) bool { return true })
}

// FindEqual lists the frames whose value for slotName equals tokens.
func (r *Registry) FindEqual(slotName string, tokens ...string) []string {
	return r.findWhere(slotName, func(value []string) bool {
		return slices.Equal(value, tokens)
	})
}

// FindNotEqual lists the frames holding a value for slotName that differs
// from tokens.
func (r *Registry) FindNotEqual(slotName string, tokens ...string) []string {
	return r.findWhere(slotName, func(value []string) bool {
		return !slices.Equal(value, tokens)
	})
}

func (r *Registry) findWhere(slotName string, match func([]string) bool) []string {
	out := []string{}
	for _, id := range r.ListFrames() {
		if !r.ValueExists(id, slotName) {
			continue
		}
		value, ok := r.GetValue(id, slotName)
		if ok && match(value) {
			out = append(out, id)
		}
	}
	return out
}
