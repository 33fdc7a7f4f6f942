package ff

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/apex/log"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// memoized builds the cache-aware replacement for a single func field. The
// replacement has the exact type of the original, so callers cannot tell a
// cached result from a computed one by signature.
//
// Call policy:
//   - cache lookup strictly precedes invocation of the original
//   - a func whose final result is a non-nil error is the failure case:
//     nothing is stored, the results pass through unchanged, and the next
//     identical call executes the original again
//   - any cache failure (key derivation, read, write) degrades to uncached
//     execution; caching never gates the result
func (w *wrapper) memoized(fn reflect.Value, method string) reflect.Value {
	ft := fn.Type()
	errIdx := -1
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errorType {
		errIdx = n - 1
	}

	return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		ctx := callContext(args)

		key, err := w.serializer.SerializeKey(method, keyArgs(args)...)
		if err != nil {
			log.WithError(err).Debugf("ff: bypassing cache for %s", method)
			return call(fn, ft, args)
		}

		if stored, ok := w.store.Get(ctx, key); ok {
			if results, ok := restore(ft, errIdx, stored); ok {
				return results
			}
			// Stored shape no longer matches the func signature (stale
			// entry from an older build, foreign writer). Treat as a miss.
		}

		out := call(fn, ft, args)
		if errIdx >= 0 && !out[errIdx].IsNil() {
			return out
		}

		if err := w.store.Set(ctx, key, storedResults(out, errIdx)); err != nil {
			log.WithError(err).Warnf("ff: failed to cache result for %s", method)
		}
		return out
	})
}

// call invokes the original func with the original argument list.
func call(fn reflect.Value, ft reflect.Type, args []reflect.Value) []reflect.Value {
	if ft.IsVariadic() {
		return fn.CallSlice(args)
	}
	return fn.Call(args)
}

// callContext extracts a leading context argument for backend calls, falling
// back to Background for funcs that take none.
func callContext(args []reflect.Value) context.Context {
	if len(args) > 0 && args[0].Kind() == reflect.Interface && !args[0].IsNil() {
		if ctx, ok := args[0].Interface().(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

// keyArgs converts the call's arguments for key derivation. Context
// arguments are excluded: they are ambient plumbing, not input, and two
// calls differing only in context must share a key.
func keyArgs(args []reflect.Value) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		if arg.Type().Implements(contextType) {
			continue
		}
		out = append(out, arg.Interface())
	}
	return out
}

// storedResults collects the non-error results into the shape handed to the
// backend: always a slice, one element per result, so zero- and
// multi-result funcs round-trip the same way.
func storedResults(out []reflect.Value, errIdx int) []any {
	stored := make([]any, 0, len(out))
	for i, rv := range out {
		if i == errIdx {
			continue
		}
		stored = append(stored, rv.Interface())
	}
	return stored
}

// restore rebuilds the func's result list from a stored entry. The error
// slot, when present, is always the zero (nil) error: only successful calls
// are ever stored.
func restore(ft reflect.Type, errIdx int, stored any) ([]reflect.Value, bool) {
	list, ok := stored.([]any)
	if !ok {
		return nil, false
	}

	want := ft.NumOut()
	if errIdx >= 0 {
		want--
	}
	if len(list) != want {
		return nil, false
	}

	results := make([]reflect.Value, ft.NumOut())
	next := 0
	for i := 0; i < ft.NumOut(); i++ {
		if i == errIdx {
			results[i] = reflect.Zero(ft.Out(i))
			continue
		}
		rv, err := coerce(list[next], ft.Out(i))
		if err != nil {
			log.WithError(err).Debugf("ff: stored value does not fit %s, treating as miss", ft.Out(i))
			return nil, false
		}
		results[i] = rv
		next++
	}

	return results, true
}

// coerce converts a stored value back to a concrete result type. Values from
// the volatile store are usually directly assignable; values read back from
// the persistent backend arrive as JSON shapes (float64 numbers,
// map[string]any objects) and take the conversion or JSON round-trip path.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		return rv.Convert(t), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(t)
	if err := json.Unmarshal(data, out.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return out.Elem(), nil
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
