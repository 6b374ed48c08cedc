package frames

import (
	"encoding/json"
)

// Trace records the reference walk for a slot hop by hop, for diagnostics.
type Trace struct {
	Frame string `json:"frame"`
	Slot  string `json:"slot"`
	Hops  []Hop  `json:"hops"`
	Cycle bool   `json:"cycle"`
}

// Hop describes one frame visited while following references.
type Hop struct {
	Frame       string `json:"frame"`
	FrameExists bool   `json:"frame_exists"`
	SlotExists  bool   `json:"slot_exists"`
	Reference   string `json:"reference,omitempty"`
	Primary     string `json:"primary,omitempty"`
}

// Path returns the frames of the trace that hold the slot, which matches
// ReferenceChain.
func (t Trace) Path() []string {
	out := []string{}
	for _, hop := range t.Hops {
		if hop.SlotExists {
			out = append(out, hop.Frame)
		}
	}
	return out
}

// Resolved returns the frame the walk ended on with content, if any.
func (t Trace) Resolved() (string, bool) {
	if t.Cycle || len(t.Hops) == 0 {
		return "", false
	}
	last := t.Hops[len(t.Hops)-1]
	return last.Frame, last.SlotExists && last.Primary != ""
}

// TraceReference walks the same path as ReferenceChain and records each hop.
// A missing target frame or slot ends the walk with a hop marking it absent.
// No demons fire.
func (r *Registry) TraceReference(frameID, slotName string) Trace {
	trace := Trace{Frame: frameID, Slot: slotName, Hops: []Hop{}}
	seen := map[string]struct{}{}
	current := frameID
	for {
		hop := Hop{Frame: current}
		f, ok := r.frames[current]
		hop.FrameExists = ok
		var s *slot
		if ok {
			s, hop.SlotExists = f.slots[slotName]
		}
		if !hop.SlotExists {
			trace.Hops = append(trace.Hops, hop)
			return trace
		}
		hop.Primary = s.primary.facet()
		if s.hasRef {
			hop.Reference = s.ref
		}
		trace.Hops = append(trace.Hops, hop)
		seen[current] = struct{}{}
		if !s.hasRef {
			return trace
		}
		if _, loop := seen[s.ref]; loop {
			trace.Cycle = true
			return trace
		}
		current = s.ref
	}
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON decodes a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
