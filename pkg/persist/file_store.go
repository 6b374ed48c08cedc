package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	frames "github.com/goliatone/go-frames"
	"github.com/goliatone/go-frames/internal/lineformat"
	"github.com/google/uuid"
)

// FileStore keeps one line format file per resource id in Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("persist: file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("persist: create %s: %w", dir, err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) Load(ctx context.Context, id string) (frames.Record, bool, error) {
	if err := ValidateID(id); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	fh, err := os.Open(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist: open %q: %w", id, err)
	}
	defer fh.Close()

	rec, err := lineformat.Decode(fh)
	if err != nil {
		return nil, false, fmt.Errorf("persist: decode %q: %w", id, err)
	}
	return frames.Record(rec), true, nil
}

// Save writes the record to a uniquely named temporary file and renames it
// over the resource, so readers never see a partial file.
func (s *FileStore) Save(ctx context.Context, id string, rec frames.Record) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := lineformat.Marshal(rec)
	if err != nil {
		return fmt.Errorf("persist: encode %q: %w", id, err)
	}
	tmp := filepath.Join(s.Dir, "."+id+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("persist: write %q: %w", id, err)
	}
	if err := os.Rename(tmp, s.path(id)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("persist: commit %q: %w", id, err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.Dir, id)
}
