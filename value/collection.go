package value

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Mapping is implemented by host collections that expose ordered key-value
// pairs.
type Mapping interface {
	Pairs() iter.Seq2[any, any]
}

// Sequence is implemented by host collections that expose ordered elements.
type Sequence interface {
	Elements() iter.Seq[any]
}

// Entry is one key-value pair of [Entries].
type Entry struct {
	Key   any
	Value any
}

// Entries is an insertion-ordered host mapping.
// Keys are not deduplicated.
type Entries []Entry

// Ordered returns Entries built from alternating keys and values.
// A trailing key without a value maps to nil.
func Ordered(kv ...any) Entries {
	e := make(Entries, 0, (len(kv)+1)/2)

	for i := 0; i < len(kv); i += 2 {
		var val any
		if i+1 < len(kv) {
			val = kv[i+1]
		}

		e = append(e, Entry{Key: kv[i], Value: val})
	}

	return e
}

// Pairs implements [Mapping].
func (e Entries) Pairs() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, entry := range e {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

// mapEntry is one key/value pair of a reflected map.
type mapEntry struct {
	key, value reflect.Value
}

// sortedEntries returns the entries of a map ordered by key, since Go maps
// have no iteration order of their own. Entries are read with a map
// iterator, so keys that never compare equal to themselves (NaN) keep
// their values.
func sortedEntries(rv reflect.Value) []mapEntry {
	entries := make([]mapEntry, 0, rv.Len())

	for it := rv.MapRange(); it.Next(); {
		entries = append(entries, mapEntry{key: it.Key(), value: it.Value()})
	}

	slices.SortStableFunc(entries, func(a, b mapEntry) int {
		return compareKeys(a.key, b.key)
	})

	return entries
}

func compareKeys(a, b reflect.Value) int {
	a, b = concrete(a), concrete(b)

	if !a.IsValid() || !b.IsValid() {
		return cmp.Compare(validity(a), validity(b))
	}

	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}

	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())

	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())

	case reflect.String:
		return cmp.Compare(a.String(), b.String())

	case reflect.Bool:
		return boolOrder(a.Bool(), b.Bool())

	default:
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}

// concrete unwraps interface-typed map keys to their dynamic value.
func concrete(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func validity(v reflect.Value) int {
	if v.IsValid() {
		return 1
	}

	return 0
}

// boolOrder sorts false before true.
func boolOrder(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
