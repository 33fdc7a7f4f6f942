package di

import (
	"github.com/with-logic/fast-foward/cache"
	"github.com/with-logic/fast-foward/ff"
)

// Container provides dependency injection for the memoization components.
// It manages singleton instances of the cache backend and key serializer and
// provides a factory for wrapping targets against them.
type Container struct {
	store      cache.Store
	serializer cache.KeySerializer
}

// NewContainer creates a DI container whose backend is the bounded sturdyc
// store built from cfg.
func NewContainer(cfg cache.BoundedConfig) (*Container, error) {
	store, err := cache.NewBoundedStore(cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		store:      store,
		serializer: cache.NewDefaultKeySerializer(),
	}, nil
}

// NewContainerWithDefaults creates a container using the default bounded
// configuration. Convenience constructor for typical use.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cache.DefaultBoundedConfig())
}

// NewContainerWithStore creates a container around a caller-supplied
// backend, e.g. a filecache.Cache or a custom Store implementation.
func NewContainerWithStore(store cache.Store) *Container {
	return &Container{
		store:      store,
		serializer: cache.NewDefaultKeySerializer(),
	}
}

// Store returns the singleton cache backend instance.
func (c *Container) Store() cache.Store {
	return c.store
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.serializer
}

// WrapWith wraps target against the container's backend and serializer.
// Since Go methods cannot have type parameters, this is provided as a
// package-level function: WrapWith(container, client, "petstore").
// The prefix partitions the container's key space per wrapped object and
// may be empty when the container serves a single target.
func WrapWith[T any](c *Container, target T, prefix string) T {
	opts := []ff.Option{
		ff.WithStore(c.store),
		ff.WithKeySerializer(c.serializer),
	}
	if prefix != "" {
		opts = append(opts, ff.WithPrefix(prefix))
	}
	return ff.Wrap(target, opts...)
}
