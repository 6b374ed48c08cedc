package frames

import "sort"

// DemonKind names one of the hook positions a slot can carry a demon for.
type DemonKind int

const (
	// DemonNone is the zero value; it is used for plain method execution
	// contexts and never stored on a slot.
	DemonNone DemonKind = iota
	IfCreateM
	IfCreateR
	IfCreateV
	IfExecM
	IfExistM
	IfExistR
	IfExistV
	IfGetM
	IfGetR
	IfGetV
	IfPutM
	IfPutR
	IfPutV
	IfRef
	IfRemoveM
	IfRemoveR
	IfRemoveV
)

var demonNames = map[DemonKind]string{
	IfCreateM: "ifcreatem",
	IfCreateR: "ifcreater",
	IfCreateV: "ifcreatev",
	IfExecM:   "ifexecm",
	IfExistM:  "ifexistm",
	IfExistR:  "ifexistr",
	IfExistV:  "ifexistv",
	IfGetM:    "ifgetm",
	IfGetR:    "ifgetr",
	IfGetV:    "ifgetv",
	IfPutM:    "ifputm",
	IfPutR:    "ifputr",
	IfPutV:    "ifputv",
	IfRef:     "ifref",
	IfRemoveM: "ifremovem",
	IfRemoveR: "ifremover",
	IfRemoveV: "ifremovev",
}

var demonsByName = func() map[string]DemonKind {
	out := make(map[string]DemonKind, len(demonNames))
	for kind, name := range demonNames {
		out[name] = kind
	}
	return out
}()

func (k DemonKind) String() string {
	if name, ok := demonNames[k]; ok {
		return name
	}
	return "none"
}

// Valid reports whether k is one of the storable demon kinds.
func (k DemonKind) Valid() bool {
	_, ok := demonNames[k]
	return ok
}

// ParseDemonKind converts a demon name such as "ifputv" into its DemonKind.
func ParseDemonKind(name string) (DemonKind, bool) {
	kind, ok := demonsByName[name]
	return kind, ok
}

// DemonKinds returns every storable demon kind in declaration order.
func DemonKinds() []DemonKind {
	out := make([]DemonKind, 0, len(demonNames))
	for kind := range demonNames {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Facet names as reported by ListFacets and used in persisted records.
const (
	FacetReference = "ref"
	FacetMethod    = "method"
	FacetValue     = "value"
)

type primaryKind int

const (
	primaryNone primaryKind = iota
	primaryMethod
	primaryValue
)

func (k primaryKind) facet() string {
	switch k {
	case primaryMethod:
		return FacetMethod
	case primaryValue:
		return FacetValue
	default:
		return ""
	}
}

type lifecycleOp int

const (
	opExist lifecycleOp = iota
	opCreate
	opRemove
	opGet
	opPut
	opExec
)

// demonFor maps a primary facet and a lifecycle action to the demon that
// precedes it.
func (k primaryKind) demonFor(op lifecycleOp) DemonKind {
	if k == primaryMethod {
		switch op {
		case opExist:
			return IfExistM
		case opCreate:
			return IfCreateM
		case opRemove:
			return IfRemoveM
		case opGet:
			return IfGetM
		case opPut:
			return IfPutM
		case opExec:
			return IfExecM
		}
	}
	if k == primaryValue {
		switch op {
		case opExist:
			return IfExistV
		case opCreate:
			return IfCreateV
		case opRemove:
			return IfRemoveV
		case opGet:
			return IfGetV
		case opPut:
			return IfPutV
		}
	}
	return DemonNone
}

type frame struct {
	id       string
	gen      uint64
	slots    map[string]*slot
	frameset bool
	members  []string
}

type slot struct {
	name    string
	gen     uint64
	hasRef  bool
	ref     string
	primary primaryKind
	method  Body
	value   []string
	demons  map[DemonKind]Body
}

func newSlot(name string, gen uint64) *slot {
	return &slot{name: name, gen: gen, demons: map[DemonKind]Body{}}
}

// clone returns a detached copy of s stamped with gen. Bodies are shared
// since they are immutable values.
func (s *slot) clone(gen uint64) *slot {
	out := &slot{
		name:    s.name,
		gen:     gen,
		hasRef:  s.hasRef,
		ref:     s.ref,
		primary: s.primary,
		method:  s.method,
		demons:  make(map[DemonKind]Body, len(s.demons)),
	}
	if s.value != nil {
		out.value = append([]string{}, s.value...)
	}
	for kind, body := range s.demons {
		out.demons[kind] = body
	}
	return out
}

func (s *slot) facets() []string {
	out := make([]string, 0, len(s.demons)+2)
	if s.hasRef {
		out = append(out, FacetReference)
	}
	if facet := s.primary.facet(); facet != "" {
		out = append(out, facet)
	}
	for kind := range s.demons {
		out = append(out, kind.String())
	}
	sort.Strings(out)
	return out
}

// slotRef pins a slot at the generation it had when an operation started so
// that state changed by a re-entrant hook can be detected.
type slotRef struct {
	frameID  string
	slotName string
	frameGen uint64
	slotGen  uint64
}
