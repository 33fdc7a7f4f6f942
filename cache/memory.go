package cache

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStore is the volatile in-process backend: an unbounded key/value
// mapping with no persistence and no serialization, so stored values keep
// their identity exactly. It is the default backend when none is supplied.
//
// The backing map is a sharded concurrent map, safe for use from multiple
// goroutines without external locking.
type MemoryStore struct {
	entries *xsync.MapOf[string, any]
}

// NewMemoryStore creates an empty volatile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: xsync.NewMapOf[string, any](),
	}
}

// Has reports whether key is present.
func (s *MemoryStore) Has(_ context.Context, key string) bool {
	_, ok := s.entries.Load(key)
	return ok
}

// Get returns the stored value for key. The second return value
// distinguishes a stored nil from an absent key.
func (s *MemoryStore) Get(_ context.Context, key string) (any, bool) {
	return s.entries.Load(key)
}

// Set stores value under key, replacing any prior entry. It never fails.
func (s *MemoryStore) Set(_ context.Context, key string, value any) error {
	s.entries.Store(key, value)
	return nil
}

// Len returns the number of entries currently stored.
func (s *MemoryStore) Len() int {
	return s.entries.Size()
}
