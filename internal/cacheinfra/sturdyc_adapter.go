package cacheinfra

import (
	"context"

	"github.com/viccon/sturdyc"
)

// sturdycStore adapts a sturdyc client to the cache.Store contract, giving
// the memoization layer a bounded, TTL-evicting alternative to the unbounded
// volatile store.
type sturdycStore struct {
	client *sturdyc.Client[any]
}

// NewSturdycStore validates cfg and initializes a sturdyc client with the
// provided settings.
//
// Version compatibility note: this adapter assumes the sturdyc v1.x API.
func NewSturdycStore(cfg Config) (*sturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.toSturdycOptions()...,
	)

	return &sturdycStore{client: client}, nil
}

// Has reports whether key holds an unexpired entry.
func (s *sturdycStore) Has(_ context.Context, key string) bool {
	_, ok := s.client.Get(key)
	return ok
}

// Get returns the stored value for key, missing on expired entries.
func (s *sturdycStore) Get(_ context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

// Set stores value under key, replacing any prior entry. Eviction of other
// entries may be triggered when the store is at capacity.
func (s *sturdycStore) Set(_ context.Context, key string, value any) error {
	s.client.Set(key, value)
	return nil
}

// Delete removes a single entry. Not part of the Store contract; exposed for
// callers that manage entry lifetimes themselves.
func (s *sturdycStore) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}
