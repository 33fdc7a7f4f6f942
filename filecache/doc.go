// Package filecache implements the persistent on-disk cache backend.
//
// Entries are stored one file per key as human-readable JSON under
// <Dir>/<Namespace>/<key>.json. The directory is created on construction,
// writes are all-or-nothing (temp file + rename), and corrupt entries
// degrade to misses instead of failing the caller. Because values round-trip
// through JSON, non-serializable constructs (functions, cycles) are out of
// contract, and values read back carry JSON's types (float64 numbers,
// map[string]any objects); the ff layer coerces those back to the concrete
// result types of the wrapped method.
//
// A Cache may be shared across wrapped objects and across independent
// processes. No cross-process locking is attempted beyond single-file rename
// atomicity; identical inputs are assumed to produce identical results, so
// last-write-wins is acceptable.
package filecache
