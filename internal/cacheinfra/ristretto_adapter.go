package cacheinfra

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// admissionBufferItems is ristretto's recommended Get buffer size.
const admissionBufferItems = 64

// ristrettoStore adapts a ristretto cache to the cache.Store contract. Every
// entry costs 1, so MaxCost acts as a plain entry bound with LFU admission.
type ristrettoStore struct {
	cache *ristretto.Cache
}

// NewRistrettoStore creates a store bounded to roughly maxEntries entries.
//
// Ristretto admits writes asynchronously: a Set may not be visible to an
// immediately following Get, and a write can be dropped entirely under
// pressure. Both degrade to a cache miss, which the memoization layer
// already tolerates.
func NewRistrettoStore(maxEntries int64) (*ristrettoStore, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cacheinfra: maxEntries must be greater than 0, got %d", maxEntries)
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: admissionBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("cacheinfra: ristretto init: %w", err)
	}

	return &ristrettoStore{cache: cache}, nil
}

// Has reports whether key is currently admitted.
func (s *ristrettoStore) Has(_ context.Context, key string) bool {
	_, ok := s.cache.Get(key)
	return ok
}

// Get returns the stored value for key.
func (s *ristrettoStore) Get(_ context.Context, key string) (any, bool) {
	return s.cache.Get(key)
}

// Set offers value to the admission policy under key. A dropped write is not
// an error; it surfaces as a future miss.
func (s *ristrettoStore) Set(_ context.Context, key string, value any) error {
	s.cache.Set(key, value, 1)
	return nil
}

// Wait blocks until buffered writes have been applied. Intended for tests
// and shutdown paths that need read-your-write behaviour.
func (s *ristrettoStore) Wait() {
	s.cache.Wait()
}
