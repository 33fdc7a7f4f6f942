package cache

import (
	"time"

	"github.com/with-logic/fast-foward/internal/cacheinfra"
)

// BoundedConfig exposes the bounded in-memory backend options for consumers
// of the cache package.
type BoundedConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultBoundedConfig returns a BoundedConfig populated with sensible defaults.
func DefaultBoundedConfig() BoundedConfig {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c BoundedConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewBoundedStore constructs a capacity- and TTL-bounded Store backed by
// sturdyc. Unlike MemoryStore it evicts, so it suits long-running processes
// wrapping objects with a large argument space.
func NewBoundedStore(cfg BoundedConfig) (Store, error) {
	return cacheinfra.NewSturdycStore(cfg.toInternal())
}

// NewLFUStore constructs a Store bounded to roughly maxEntries entries with
// LFU admission, backed by ristretto. Writes are admitted asynchronously, so
// an entry may not be visible immediately after Set; use it where throughput
// matters more than read-your-write behaviour.
func NewLFUStore(maxEntries int64) (Store, error) {
	return cacheinfra.NewRistrettoStore(maxEntries)
}

func (c BoundedConfig) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) BoundedConfig {
	return BoundedConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
