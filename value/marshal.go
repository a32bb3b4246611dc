package value

import (
	"encoding/json"
	"iter"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/goccy/go-yaml"
)

// rule is one category of the marshalling dispatch table. A rule reports
// false when the host value does not belong to its category.
type rule struct {
	name  string
	apply func(host any, rv reflect.Value) (Value, bool)
}

// rules is consulted in order and the first matching category wins.
// Several host types satisfy more than one category, so the order is part of
// the mapping: a named byte slice is bytes before it is a collection, and a
// [Value] is only passed through if it is not already a collection.
//
// The table is filled in init because the collection rule recurses into
// [Marshal].
var rules []rule

func init() {
	rules = []rule{
		{"native scalar", nativeScalar},
		{"narrow integer", narrowInteger},
		{"uint32", unsigned32},
		{"uint64", unsigned64},
		{"float32", single},
		{"decimal", decimal},
		{"text", text},
		{"bytes", byteBuffer},
		{"collection", collection},
		{"native value", native},
	}
}

// Marshal converts a host value into the script value model.
//
// Marshal never fails. Values of no recognized category, including nil,
// become [Opaque] handles. Collections are converted recursively with no
// cycle detection, so a host structure that references itself recurses
// without bound.
func Marshal(host any) Value {
	if host == nil {
		return Opaque(nil)
	}

	rv := reflect.ValueOf(host)

	for _, r := range rules {
		if v, ok := r.apply(host, rv); ok {
			return v
		}
	}

	return Opaque(host)
}

func nativeScalar(host any, rv reflect.Value) (Value, bool) {
	switch x := host.(type) {
	case int:
		return Int(int64(x)), true
	case int64:
		return Int(x), true
	case float64:
		return Float(x), true
	case bool:
		return Bool(x), true
	}

	// Named types over the same kinds, e.g. time.Duration.
	switch rv.Kind() {
	case reflect.Int, reflect.Int64:
		return Int(rv.Int()), true
	case reflect.Float64:
		return Float(rv.Float()), true
	case reflect.Bool:
		return Bool(rv.Bool()), true
	default:
		return Value{}, false
	}
}

func narrowInteger(_ any, rv reflect.Value) (Value, bool) {
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return Int(rv.Int()), true
	case reflect.Uint8, reflect.Uint16:
		return Int(int64(rv.Uint())), true
	default:
		return Value{}, false
	}
}

func unsigned32(_ any, rv reflect.Value) (Value, bool) {
	if rv.Kind() != reflect.Uint32 {
		return Value{}, false
	}

	return Int(int64(rv.Uint())), true
}

func unsigned64(_ any, rv reflect.Value) (Value, bool) {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return Int(int64(u)), true
		}

		return String(strconv.FormatUint(u, 10)), true

	default:
		return Value{}, false
	}
}

// single formats a float32 with 32-bit shortest-representation rules and
// reads the text back as a float64, so float32(0.1) becomes 0.1 rather than
// 0.10000000149011612.
func single(_ any, rv reflect.Value) (Value, bool) {
	if rv.Kind() != reflect.Float32 {
		return Value{}, false
	}

	s := strconv.FormatFloat(rv.Float(), 'g', -1, 32)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Float(rv.Float()), true
	}

	return Float(f), true
}

func decimal(host any, _ reflect.Value) (Value, bool) {
	switch x := host.(type) {
	case json.Number:
		return String(x.String()), true

	case big.Int:
		return String(x.String()), true

	case *big.Int:
		if x == nil {
			return Value{}, false
		}

		return String(x.String()), true

	case big.Float:
		return String(x.Text('g', -1)), true

	case *big.Float:
		if x == nil {
			return Value{}, false
		}

		return String(x.Text('g', -1)), true

	case big.Rat:
		return String(x.RatString()), true

	case *big.Rat:
		if x == nil {
			return Value{}, false
		}

		return String(x.RatString()), true

	default:
		return Value{}, false
	}
}

func text(_ any, rv reflect.Value) (Value, bool) {
	if rv.Kind() != reflect.String {
		return Value{}, false
	}

	return String(rv.String()), true
}

func byteBuffer(_ any, rv reflect.Value) (Value, bool) {
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
		return Value{}, false
	}

	return Bytes(rv.Bytes()), true
}

func collection(host any, rv reflect.Value) (Value, bool) {
	switch c := host.(type) {
	case Mapping:
		return fromPairs(c.Pairs()), true

	case Sequence:
		return fromElements(c.Elements()), true

	case iter.Seq2[any, any]:
		return fromPairs(c), true

	case iter.Seq[any]:
		return fromElements(c), true

	case func(func(any, any) bool):
		return fromPairs(c), true

	case func(func(any) bool):
		return fromElements(c), true

	case yaml.MapSlice:
		pairs := make([]Pair, 0, len(c))
		for _, item := range c {
			pairs = append(pairs, Pair{Key: Marshal(item.Key), Value: Marshal(item.Value)})
		}

		return Array(pairs...), true
	}

	switch rv.Kind() {
	case reflect.Map:
		entries := sortedEntries(rv)
		pairs := make([]Pair, len(entries))

		for i, e := range entries {
			pairs[i] = Pair{
				Key:   Marshal(e.key.Interface()),
				Value: Marshal(e.value.Interface()),
			}
		}

		return Array(pairs...), true

	case reflect.Slice, reflect.Array:
		pairs := make([]Pair, rv.Len())
		for i := range pairs {
			pairs[i] = Pair{Key: Int(int64(i)), Value: Marshal(rv.Index(i).Interface())}
		}

		return Array(pairs...), true

	default:
		return Value{}, false
	}
}

func native(host any, _ reflect.Value) (Value, bool) {
	switch v := host.(type) {
	case Value:
		return v, true

	case *Value:
		if v == nil {
			return Value{}, false
		}

		return *v, true

	default:
		return Value{}, false
	}
}

func fromPairs(seq iter.Seq2[any, any]) Value {
	var pairs []Pair

	for k, v := range seq {
		pairs = append(pairs, Pair{Key: Marshal(k), Value: Marshal(v)})
	}

	return Array(pairs...)
}

func fromElements(seq iter.Seq[any]) Value {
	var pairs []Pair

	for e := range seq {
		pairs = append(pairs, Pair{Key: Int(int64(len(pairs))), Value: Marshal(e)})
	}

	return Array(pairs...)
}
