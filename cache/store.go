package cache

import (
	"context"
	"errors"
)

// ErrUnserializable is returned when an argument or value cannot be turned
// into a canonical textual form (functions, channels, unsafe pointers).
var ErrUnserializable = errors.New("cache: value cannot be canonically serialized")

// ErrCyclicValue is returned when an argument contains a reference cycle.
// Cyclic values have no finite canonical encoding, so key derivation fails
// fast instead of producing a wrong key.
var ErrCyclicValue = errors.New("cache: value contains a reference cycle")

// KeySerializer builds a cache key from a method identifier + arbitrary args.
// It is responsible for producing stable keys across calls and across runs.
type KeySerializer interface {
	SerializeKey(method string, args ...any) (string, error)
}

// Store is the capability contract every cache backend must satisfy.
// Nothing above this interface knows which backend is in use; callers may
// supply their own implementation (bounded, distributed, instrumented).
//
// Get's second return value is the absence sentinel: a stored nil comes back
// as (nil, true), an absent key as (nil, false).
type Store interface {
	Has(ctx context.Context, key string) bool
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any) error
}
