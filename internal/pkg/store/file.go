package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// fileStore persists each collection as a single JSON file under dir.
// Saves are atomic (write to a temp file, then rename), so a crashed
// write never leaves a half-written collection behind.
type fileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore returns a file-backed adapter rooted at dir. The
// directory is created on the first save.
func NewFileStore(dir string) *fileStore {
	return &fileStore{dir: dir}
}

func (s *fileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *fileStore) Load(ctx context.Context, collection string, out any) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	raw, err := os.ReadFile(s.path(collection))
	s.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load %s: %w", collection, err)
	}

	// A corrupted file degrades to an absent collection rather than a
	// partial parse. The file itself is left in place for inspection.
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("corrupted collection file, loading as empty", "collection", collection, "err", err)
		return nil
	}

	return nil
}

func (s *fileStore) Save(ctx context.Context, collection string, records any) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", collection, err)
	}

	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", collection, err)
	}

	return nil
}
