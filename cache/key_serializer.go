package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between canonical key segments.
const KeySeparator = "::"

// defaultKeySerializer implements KeySerializer using reflection-based
// canonicalization. It walks arguments into a deterministic textual form
// (kind-tagged primitives, sorted map entries, recursive slices) and digests
// the result with xxhash so keys are fixed-length and safe to use as
// filenames by the persistent backend.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey builds a cache key from a method identifier and args.
//
// The method identifier is length-prefixed before being joined with the
// canonical argument text, so two different methods can never collide at the
// pre-hash stage regardless of what their arguments serialize to. The joined
// text is then hashed; the key is the 16 hex digit digest.
//
// Arguments containing functions, channels, or reference cycles cannot be
// canonically serialized and produce an error rather than an unstable key.
func (s *defaultKeySerializer) SerializeKey(method string, args ...any) (string, error) {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(method)))
	b.WriteByte(':')
	b.WriteString(method)

	for _, arg := range args {
		serialized, err := s.serializeValue(arg, make(map[uintptr]bool))
		if err != nil {
			return "", err
		}
		b.WriteString(KeySeparator)
		b.WriteString(serialized)
	}

	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String())), nil
}

// serializeValue handles individual argument canonicalization based on type.
// seen tracks references on the current descent path for cycle detection.
func (s *defaultKeySerializer) serializeValue(v any, seen map[uintptr]bool) (string, error) {
	if v == nil {
		return "nil", nil
	}

	rv := reflect.ValueOf(v)
	rt := reflect.TypeOf(v)

	switch rt.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		// Addresses are only stable within a single process; keys must
		// survive process restarts for the persistent backend.
		return "", fmt.Errorf("%w: %s argument", ErrUnserializable, rt.Kind())

	case reflect.Pointer:
		if rv.IsNil() {
			return "nil", nil
		}
		if err := s.enter(rv, seen); err != nil {
			return "", err
		}
		defer s.leave(rv, seen)
		return s.serializeValue(rv.Elem().Interface(), seen)

	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil", nil
		}
		if err := s.enter(rv, seen); err != nil {
			return "", err
		}
		defer s.leave(rv, seen)
		return s.serializeSequence("slice", rv, seen)

	case reflect.Array:
		return s.serializeSequence("array", rv, seen)

	case reflect.Map:
		if rv.IsNil() {
			return "map:nil", nil
		}
		if err := s.enter(rv, seen); err != nil {
			return "", err
		}
		defer s.leave(rv, seen)
		return s.serializeMap(rv, seen)

	case reflect.Struct:
		return s.serializeStruct(rv, rt, seen)
	}

	if out, ok := s.serializeBasic(rv, rt.Kind()); ok {
		return out, nil
	}

	return s.jsonFallback(v)
}

// serializeBasic encodes primitive values with a kind tag so values of
// different types never share an encoding (the string "1" is s:"1", the
// number 1 is i:1).
func (s *defaultKeySerializer) serializeBasic(rv reflect.Value, kind reflect.Kind) (string, bool) {
	switch kind {
	case reflect.Bool:
		return "b:" + strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "i:" + strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return "u:" + strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return "f:" + strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	case reflect.Complex64, reflect.Complex128:
		return "c:" + strconv.FormatComplex(rv.Complex(), 'g', -1, 128), true
	case reflect.String:
		return "s:" + strconv.Quote(rv.String()), true
	default:
		return "", false
	}
}

// serializeSequence handles slices and arrays recursively.
func (s *defaultKeySerializer) serializeSequence(label string, rv reflect.Value, seen map[uintptr]bool) (string, error) {
	length := rv.Len()
	parts := make([]string, length)

	for i := 0; i < length; i++ {
		elem, err := s.serializeValue(rv.Index(i).Interface(), seen)
		if err != nil {
			return "", err
		}
		parts[i] = elem
	}

	return fmt.Sprintf("%s[%d]:{%s}", label, length, strings.Join(parts, ",")), nil
}

// serializeMap handles maps with entries sorted by canonical key text, so
// structurally identical maps produce identical encodings regardless of
// construction or iteration order.
func (s *defaultKeySerializer) serializeMap(rv reflect.Value, seen map[uintptr]bool) (string, error) {
	keys := rv.MapKeys()
	pairs := make([]string, 0, len(keys))

	for _, k := range keys {
		keyStr, err := s.serializeValue(k.Interface(), seen)
		if err != nil {
			return "", err
		}
		valStr, err := s.serializeValue(rv.MapIndex(k).Interface(), seen)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, keyStr+"="+valStr)
	}
	sort.Strings(pairs)

	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ",")), nil
}

// serializeStruct handles structs as ordered Name:value pairs of the
// exported fields. Types exposing no exported fields at all (time.Time is
// the usual case) fall back to their JSON encoding, which stays stable where
// the field walk would collapse every value to an empty struct.
func (s *defaultKeySerializer) serializeStruct(rv reflect.Value, rt reflect.Type, seen map[uintptr]bool) (string, error) {
	numFields := rv.NumField()
	parts := make([]string, 0, numFields)

	for i := 0; i < numFields; i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldValue := rv.Field(i)
		if !fieldValue.CanInterface() {
			continue
		}

		serialized, err := s.serializeValue(fieldValue.Interface(), seen)
		if err != nil {
			return "", err
		}
		parts = append(parts, field.Name+":"+serialized)
	}

	if len(parts) == 0 && numFields > 0 {
		return s.jsonFallback(rv.Interface())
	}

	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ",")), nil
}

// enter registers a reference on the current descent path, failing if it is
// already there. leave unregisters it so shared (diamond) references remain
// legal; only true cycles are rejected.
func (s *defaultKeySerializer) enter(rv reflect.Value, seen map[uintptr]bool) error {
	ptr := rv.Pointer()
	if seen[ptr] {
		return fmt.Errorf("%w: %s", ErrCyclicValue, rv.Type())
	}
	seen[ptr] = true
	return nil
}

func (s *defaultKeySerializer) leave(rv reflect.Value, seen map[uintptr]bool) {
	delete(seen, rv.Pointer())
}

// jsonFallback provides JSON serialization as a last resort for kinds the
// walk does not model.
func (s *defaultKeySerializer) jsonFallback(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnserializable, err)
	}
	return "json:" + string(data), nil
}
