package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	frames "github.com/goliatone/go-frames"
)

var ErrInvalidID = errors.New("persist: invalid resource id")

// Store loads and saves one record per resource id. Load reports ok=false,
// with a nil error, when the resource does not exist.
type Store interface {
	Load(ctx context.Context, id string) (rec frames.Record, ok bool, err error)
	Save(ctx context.Context, id string, rec frames.Record) error
}

// ValidateID rejects ids that cannot name a stored resource.
func ValidateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: empty", ErrInvalidID)
	case id == "." || id == "..":
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	case strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidID, id)
	}
	return nil
}

// MemoryStore keeps records in memory. It is meant for tests and examples.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]frames.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]frames.Record{}}
}

func (s *MemoryStore) Load(_ context.Context, id string) (frames.Record, bool, error) {
	if err := ValidateID(id); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, rec frames.Record) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.records[id] = cloneRecord(rec)
	s.mu.Unlock()
	return nil
}

// IDs lists stored resource ids.
func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.records))
	for id := range s.records {
		out = append(out, id)
	}
	return out
}

func cloneRecord(rec frames.Record) frames.Record {
	if rec == nil {
		return nil
	}
	out := make(frames.Record, len(rec))
	for key, tokens := range rec {
		out[key] = append([]string{}, tokens...)
	}
	return out
}
