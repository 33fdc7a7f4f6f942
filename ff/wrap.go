package ff

import (
	"reflect"
	"strings"

	"github.com/with-logic/fast-foward/cache"
)

// options collects the wrap-time configuration.
type options struct {
	store      cache.Store
	serializer cache.KeySerializer
	prefix     string
}

// Option configures Wrap.
type Option func(*options)

// WithStore sets the cache backend shared by the wrapper and every nested
// wrapper it produces. Defaults to a fresh volatile MemoryStore.
func WithStore(store cache.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithKeySerializer overrides the key derivation strategy.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(o *options) {
		o.serializer = serializer
	}
}

// WithPrefix prepends a qualifier to every derived method identifier. Use it
// when several wrapped objects share one backend (a persistent one in
// particular) and their key spaces must not collide.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// Wrap returns a memoizing copy of target: a value of the same type whose
// exported func fields consult the cache before falling back to the original
// function, and whose exported struct fields are wrapped recursively against
// the same backend.
//
// The original value is never mutated. Unexported state and non-func fields
// are carried over untouched, and the replacement funcs close over the
// originals, so any state the target's functions share keeps behaving
// exactly as without wrapping. Methods declared on the type (as opposed to
// func fields) are not intercepted: calls the target makes to itself never
// pass through the cache.
//
// Targets that are not structs or pointers to structs have no callable
// properties to intercept and are returned unchanged.
func Wrap[T any](target T, opts ...Option) T {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = cache.NewMemoryStore()
	}
	if o.serializer == nil {
		o.serializer = cache.NewDefaultKeySerializer()
	}

	w := &wrapper{
		store:      o.store,
		serializer: o.serializer,
		prefix:     o.prefix,
	}

	out := w.wrapValue(reflect.ValueOf(&target).Elem(), nil, make(map[uintptr]bool))
	return out.Interface().(T)
}

// wrapper holds the pieces shared by every memoized func produced from a
// single Wrap call.
type wrapper struct {
	store      cache.Store
	serializer cache.KeySerializer
	prefix     string
}

// wrapValue dispatches on the target's kind. Pointers are followed into
// their struct pointee and a fresh pointer to the wrapped copy is returned;
// anything that is not a struct passes through untouched.
//
// seen guards against pointer cycles in the target graph: a pointer already
// on the current descent path is left as-is instead of recursing forever.
func (w *wrapper) wrapValue(v reflect.Value, path []string, seen map[uintptr]bool) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return v
		}
		ptr := v.Pointer()
		if seen[ptr] {
			return v
		}
		seen[ptr] = true
		defer delete(seen, ptr)

		out := reflect.New(v.Elem().Type())
		out.Elem().Set(w.wrapStruct(v.Elem(), path, seen))
		return out

	case reflect.Struct:
		return w.wrapStruct(v, path, seen)

	default:
		return v
	}
}

// wrapStruct produces the memoizing copy of a single struct level. The whole
// value is copied first so unexported fields survive, then the exported
// func and nested-object fields are replaced.
func (w *wrapper) wrapStruct(v reflect.Value, path []string, seen map[uintptr]bool) reflect.Value {
	t := v.Type()
	out := reflect.New(t).Elem()
	out.Set(v)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fv := out.Field(i)
		fieldPath := appendPath(path, toSnake(field.Name))

		switch {
		case field.Type.Kind() == reflect.Func:
			if fv.IsNil() {
				continue
			}
			// Snapshot the func before overwriting the slot: fv is
			// addressable and Call reads the slot at call time, so handing
			// fv itself to the wrapper would make it invoke itself.
			orig := reflect.ValueOf(fv.Interface())
			fv.Set(w.memoized(orig, w.methodName(fieldPath)))

		case field.Type.Kind() == reflect.Struct,
			field.Type.Kind() == reflect.Pointer && field.Type.Elem().Kind() == reflect.Struct:
			fv.Set(w.wrapValue(fv, fieldPath, seen))
		}
	}

	return out
}

// methodName joins the access path into the qualified method identifier,
// e.g. "users.get_by_id". Same-named funcs on different nested objects get
// distinct identifiers because their paths differ.
func (w *wrapper) methodName(path []string) string {
	name := strings.Join(path, ".")
	if w.prefix != "" {
		name = w.prefix + "." + name
	}
	return name
}

// appendPath extends a path without sharing the backing array between
// sibling fields.
func appendPath(path []string, segment string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, segment)
}
