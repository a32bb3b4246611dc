package value

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"
)

// Kind identifies the variant of a [Value].
type Kind uint8

// Value kinds of the script value model.
const (
	KindInteger Kind = iota
	KindFloat
	KindBoolean
	KindString
	KindBytes
	KindArray
	KindOpaque
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Value is a tagged value of the script value model.
//
// The zero Value is the integer 0.
type Value struct {
	kind Kind
	num  int64
	flt  float64
	str  string
	raw  []byte
	arr  []Pair
	host any
}

// Pair is one key-value entry of an array [Value].
type Pair struct {
	Key   Value
	Value Value
}

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInteger, num: n} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.num = 1
	}

	return v
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bytes returns a byte buffer value. The buffer is not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }

// Array returns an array value holding the given pairs in order.
func Array(pairs ...Pair) Value { return Value{kind: KindArray, arr: pairs} }

// List returns an array value with sequential integer keys starting at 0.
func List(elems ...Value) Value {
	pairs := make([]Pair, len(elems))
	for i, e := range elems {
		pairs[i] = Pair{Key: Int(int64(i)), Value: e}
	}

	return Array(pairs...)
}

// Opaque returns a handle wrapping a host value the script value model does
// not represent natively.
func Opaque(host any) Value { return Value{kind: KindOpaque, host: host} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == KindInteger }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.flt, v.kind == KindFloat }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.num != 0, v.kind == KindBoolean }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBytes returns the byte buffer held by v.
func (v Value) AsBytes() ([]byte, bool) { return v.raw, v.kind == KindBytes }

// AsArray returns the pairs held by v.
func (v Value) AsArray() ([]Pair, bool) { return v.arr, v.kind == KindArray }

// AsHost returns the host value wrapped by an opaque v.
func (v Value) AsHost() (any, bool) { return v.host, v.kind == KindOpaque }

// Len returns the number of pairs of an array, the length of a string or
// byte buffer, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindString:
		return len(v.str)
	case KindBytes:
		return len(v.raw)
	default:
		return 0
	}
}

// Get returns the value stored under key in an array value. Keys compare
// with [Value.Equal]; the last matching pair wins.
func (v Value) Get(key Value) (Value, bool) {
	var (
		found Value
		ok    bool
	)

	for _, p := range v.arr {
		if p.Key.Equal(key) {
			found, ok = p.Value, true
		}
	}

	return found, ok
}

// Equal reports whether v and o have the same kind and content.
// Opaque handles compare their host values with reflect.DeepEqual.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindInteger, KindBoolean:
		return v.num == o.num

	case KindFloat:
		return v.flt == o.flt

	case KindString:
		return v.str == o.str

	case KindBytes:
		return bytes.Equal(v.raw, o.raw)

	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}

		for i := range v.arr {
			if !v.arr[i].Key.Equal(o.arr[i].Key) ||
				!v.arr[i].Value.Equal(o.arr[i].Value) {
				return false
			}
		}

		return true

	default:
		return reflect.DeepEqual(v.host, o.host)
	}
}

// String returns a dump of v for diagnostics, e.g. array{0: int(1)}.
func (v Value) String() string {
	var sb strings.Builder

	v.dump(&sb)

	return sb.String()
}

func (v Value) dump(sb *strings.Builder) {
	switch v.kind {
	case KindInteger:
		sb.WriteString("int(" + strconv.FormatInt(v.num, 10) + ")")

	case KindFloat:
		sb.WriteString("float(" + strconv.FormatFloat(v.flt, 'g', -1, 64) + ")")

	case KindBoolean:
		sb.WriteString("bool(" + strconv.FormatBool(v.num != 0) + ")")

	case KindString:
		sb.WriteString("string(" + strconv.Quote(v.str) + ")")

	case KindBytes:
		sb.WriteString("bytes(" + strconv.Quote(string(v.raw)) + ")")

	case KindArray:
		sb.WriteString("array{")

		for i, p := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}

			p.Key.dump(sb)
			sb.WriteString(": ")
			p.Value.dump(sb)
		}

		sb.WriteString("}")

	default:
		if v.host == nil {
			sb.WriteString("opaque(nil)")

			return
		}

		sb.WriteString("opaque(" + reflect.TypeOf(v.host).String() + ")")
	}
}
