// Package cache provides the backend contract and key derivation used by the
// ff memoization layer.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - Store: the capability contract (Has/Get/Set) any backend must satisfy
//   - KeySerializer: builds stable cache keys from method identifiers and arguments
//
// The default Store is the volatile MemoryStore. Bounded alternatives are
// available via NewBoundedStore (sturdyc) and NewLFUStore (ristretto), and the
// filecache package provides a persistent on-disk backend. No component above
// the Store interface knows which backend is in use.
//
// # Basic Usage
//
//	serializer := cache.NewDefaultKeySerializer()
//	key, err := serializer.SerializeKey("users.get_by_id", "user-123")
//
//	store := cache.NewMemoryStore()
//	_ = store.Set(ctx, key, value)
//	v, ok := store.Get(ctx, key)
//
// # Key Serialization Strategy
//
// The default serializer canonicalizes arguments by reflection and hashes the
// result with xxhash into a fixed-length key:
//
//   - Primitives: kind-tagged encodings, so the string "1" and the number 1
//     never share a key
//   - Slices/arrays: recursive serialization of elements with length
//   - Maps: entries sorted by canonical key text for deterministic output
//   - Structs: exported fields as Name:value pairs; types with no exported
//     fields (time.Time) fall back to JSON
//   - Pointers: dereferenced; nil in all its spellings stays distinguishable
//
// Two calls with structurally equal arguments map to the same key regardless
// of object identity; calls differing in any value, type, or position map to
// different keys with overwhelming probability.
//
// # Limitations
//
// Functions, channels, and cyclic values have no canonical encoding that
// survives a process restart. SerializeKey fails fast with ErrUnserializable
// or ErrCyclicValue for those rather than emitting a silently wrong key. The
// ff layer degrades such calls to uncached execution.
//
// # Custom Backends
//
// Any type satisfying Store is usable, including caller-supplied ones:
//
//	type redisStore struct{ c *redis.Client }
//
//	func (s *redisStore) Has(ctx context.Context, key string) bool { ... }
//	func (s *redisStore) Get(ctx context.Context, key string) (any, bool) { ... }
//	func (s *redisStore) Set(ctx context.Context, key string, value any) error { ... }
//
// # See Also
//
// For the memoizing wrapper itself, see the ff package. For the persistent
// backend, see the filecache package.
package cache
