// Package ff memoizes calls through an object's func fields so repeated
// invocations with identical arguments return a previously computed result
// instead of re-executing the underlying function.
//
// # Overview
//
// Wrap takes a struct (or pointer to struct) whose exported func fields are
// its callable surface and returns a value of the same type where each func
// field consults a cache backend before falling back to the original.
// Exported struct fields are wrapped recursively against the same backend,
// so a generated API client with nested service objects works out of the
// box. The layer targets test and development workflows where calls are
// expensive (computation, network I/O) and deterministic enough that
// identical inputs yield identical outputs.
//
// # Basic Usage
//
//	type Calculator struct {
//		Add func(a, b int) int
//	}
//
//	calc := ff.Wrap(Calculator{Add: slowAdd})
//	calc.Add(2, 3) // executes slowAdd
//	calc.Add(2, 3) // served from cache
//
// With no options, results live in a fresh in-process MemoryStore. To reuse
// results across runs, supply the persistent backend:
//
//	store, err := filecache.New(filecache.Config{Namespace: "petstore"})
//	if err != nil {
//		return err
//	}
//	client := ff.Wrap(newPetstoreClient(), ff.WithStore(store))
//
// # Caching Behavior
//
//  1. Derive a key from the qualified field path (e.g. users.get_by_id) and
//     the call's arguments. Context arguments are excluded.
//  2. On a hit, return the stored results without invoking the original.
//  3. On a miss, invoke the original with the original arguments, store the
//     results, and return them.
//
// A func whose final result is error is the asynchronous-failure analog: a
// call returning a non-nil error is never stored, so transient failures are
// retried on the next identical call rather than cached forever.
//
// # What Is Not Intercepted
//
// Only calls that go through the wrapped value are cached. Methods declared
// on the target's type, and calls the target's funcs make among themselves,
// reach the original object directly. Non-func fields pass through
// unchanged.
//
// # Error Handling
//
// Failures from the wrapped function always propagate unchanged. Failures
// in the caching infrastructure are contained: an unserializable argument
// bypasses the cache for that call, a corrupt or ill-fitting stored entry is
// treated as a miss, and a failed cache write is logged and swallowed. The
// wrapped function's result is always returned.
//
// # Determinism Is Assumed
//
// The layer does not detect non-deterministic or side-effecting functions,
// and it does not coalesce concurrent identical calls: two goroutines that
// miss on the same key both execute the original, and both writes land
// (last one wins). Both are acceptable exactly because identical inputs are
// assumed to produce identical results.
package ff
