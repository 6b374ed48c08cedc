package frames

import (
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-frames/pkg/activity"
)

// Record is the flat attribute view of a frame used for persistence. Keys
// are "slots", "set" for framesets, and "<slot>,<facet>" where facet is
// "ref", "method", "value" or a demon name. Bodies are recorded by name.
type Record map[string][]string

const (
	recordSlots = "slots"
	recordSet   = "set"
)

// Keys returns the record keys in lexical order.
func (rec Record) Keys() []string {
	keys := make([]string, 0, len(rec))
	for key := range rec {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Members returns the membership recorded for a frameset.
func (rec Record) Members() []string {
	return append([]string{}, rec[recordSet]...)
}

func facetKey(slotName, facet string) string {
	return slotName + "," + facet
}

func splitFacetKey(key string) (string, string, bool) {
	idx := strings.LastIndex(key, ",")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}

// Export snapshots frame id as a Record. No demons fire.
func (r *Registry) Export(id string) (Record, bool) {
	f, ok := r.frames[id]
	if !ok {
		return nil, false
	}
	rec := Record{recordSlots: slotNames(f)}
	if f.frameset {
		rec[recordSet] = append([]string{}, f.members...)
	}
	for name, s := range f.slots {
		if s.hasRef {
			rec[facetKey(name, FacetReference)] = tokenOf(s.ref)
		}
		switch s.primary {
		case primaryMethod:
			rec[facetKey(name, FacetMethod)] = tokenOf(BodyName(s.method))
		case primaryValue:
			rec[facetKey(name, FacetValue)] = append([]string{}, s.value...)
		}
		for kind, body := range s.demons {
			rec[facetKey(name, kind.String())] = tokenOf(BodyName(body))
		}
	}
	return rec, true
}

func tokenOf(s string) []string {
	if s == "" {
		return []string{}
	}
	return []string{s}
}

// Import creates frame id from rec. Body names are resolved through the
// method table; names it does not know become placeholders that fail with
// ErrUnresolvedBody when run. Import fails when id is already resident.
func (r *Registry) Import(id string, rec Record) bool {
	if rec == nil {
		return false
	}
	_, isSet := rec[recordSet]
	if !r.addFrame(id, isSet) {
		return false
	}
	f := r.frames[id]
	if isSet {
		for _, member := range rec[recordSet] {
			if member != id && !slices.Contains(f.members, member) {
				f.members = append(f.members, member)
			}
		}
	}
	ensure := func(name string) *slot {
		s, ok := f.slots[name]
		if !ok {
			s = newSlot(name, r.nextGen())
			f.slots[name] = s
		}
		return s
	}
	for _, name := range rec[recordSlots] {
		if name != "" {
			ensure(name)
		}
	}
	for _, key := range rec.Keys() {
		if key == recordSlots || key == recordSet {
			continue
		}
		name, facet, ok := splitFacetKey(key)
		if !ok {
			r.anomaly("import", slotRef{frameID: id}, "malformed record key "+key)
			continue
		}
		tokens := rec[key]
		s := ensure(name)
		at := slotRef{frameID: id, slotName: name}
		switch facet {
		case FacetReference:
			s.hasRef = true
			s.ref = strings.Join(tokens, " ")
		case FacetMethod, FacetValue:
			if s.primary != primaryNone {
				r.anomaly("import", at, "slot holds both method and value content")
				continue
			}
			if facet == FacetMethod {
				s.primary = primaryMethod
				s.method = r.resolveBody(tokens)
			} else {
				s.primary = primaryValue
				s.value = append([]string{}, tokens...)
			}
		default:
			kind, ok := ParseDemonKind(facet)
			if !ok {
				r.anomaly("import", at, "unknown facet "+facet)
				continue
			}
			s.demons[kind] = r.resolveBody(tokens)
		}
		if s.hasRef && s.primary != primaryNone {
			r.anomaly("import", at, "slot holds both a reference and "+s.primary.facet()+" content")
		}
	}
	r.emit(activity.VerbFrameCreated, id, "", "")
	return true
}

func (r *Registry) resolveBody(tokens []string) Body {
	if len(tokens) == 0 || tokens[0] == "" {
		return nil
	}
	name := tokens[0]
	if body, ok := r.methods.Get(name); ok {
		return body
	}
	return unresolvedBody{name: name}
}
