package frames

import (
	"sort"
	"sync"
)

// MethodTable maps names to bodies. Persisted frames only carry body names;
// Import resolves them here.
type MethodTable struct {
	mu      sync.RWMutex
	methods map[string]Body
}

// NewMethodTable constructs an empty table.
func NewMethodTable() *MethodTable {
	return &MethodTable{methods: map[string]Body{}}
}

// Register stores body under name. It fails when the name is empty or taken.
// The stored body carries name, so slots holding it export by that name.
func (t *MethodTable) Register(name string, body Body) bool {
	if name == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.methods[name]; exists {
		return false
	}
	t.methods[name] = nameBody(name, body)
	return true
}

// Replace stores body under name, overwriting any previous entry.
func (t *MethodTable) Replace(name string, body Body) bool {
	if name == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.methods[name] = nameBody(name, body)
	return true
}

// Remove deletes name from the table.
func (t *MethodTable) Remove(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.methods[name]; !exists {
		return false
	}
	delete(t.methods, name)
	return true
}

func (t *MethodTable) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.methods[name]
	return ok
}

// Get returns the body registered under name.
func (t *MethodTable) Get(name string) (Body, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	body, ok := t.methods[name]
	return body, ok
}

// Names lists registered names in lexical order.
func (t *MethodTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the table.
func (t *MethodTable) Clone() *MethodTable {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := &MethodTable{methods: make(map[string]Body, len(t.methods))}
	for name, body := range t.methods {
		out.methods[name] = body
	}
	return out
}

// nameBody keeps bodies that already report name as they are.
func nameBody(name string, body Body) Body {
	if BodyName(body) == name {
		return body
	}
	return Named(name, body)
}
