package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// memoryStore keeps collections in process memory as serialized JSON,
// so loads hand back copies instead of aliases into the store.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns a volatile adapter. Useful for tests and for
// running without a durable backend.
func NewMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Load(ctx context.Context, collection string, out any) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.RLock()
	raw, ok := s.data[collection]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("corrupted collection, loading as empty", "collection", collection, "err", err)
		return nil
	}

	return nil
}

func (s *memoryStore) Save(ctx context.Context, collection string, records any) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[collection] = raw
	s.mu.Unlock()

	return nil
}
