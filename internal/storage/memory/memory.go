package memory

import (
	"context"
	"os"
	"sync"

	"gastos/internal/storage"
)

// Store is a map-backed storage.KV for development and tests. Nothing
// survives a restart unless a seed file is given.
type Store struct {
	mu     sync.Mutex
	values map[string][]byte
}

var _ storage.KV = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// NewFromFile seeds key with the raw contents of path. A missing file
// leaves the store empty.
func NewFromFile(path, key string) *Store {
	s := New()
	if path == "" {
		return s
	}
	if data, err := os.ReadFile(path); err == nil {
		s.values[key] = data
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
