package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Native projects v onto the Go types the script engine operates on.
//
// Integers become int, floats float64, booleans bool, strings string and
// byte buffers []byte. An array whose keys are exactly the integers 0..n-1
// in order becomes []any; any other array becomes map[string]any keyed by
// the text of each key, where a later duplicate key replaces an earlier one.
// Opaque handles yield the wrapped host value.
func (v Value) Native() any {
	switch v.kind {
	case KindInteger:
		return int(v.num)

	case KindFloat:
		return v.flt

	case KindBoolean:
		return v.num != 0

	case KindString:
		return v.str

	case KindBytes:
		return v.raw

	case KindArray:
		if v.isList() {
			list := make([]any, len(v.arr))
			for i, p := range v.arr {
				list[i] = p.Value.Native()
			}

			return list
		}

		m := make(map[string]any, len(v.arr))
		for _, p := range v.arr {
			m[p.Key.Text()] = p.Value.Native()
		}

		return m

	default:
		return v.host
	}
}

// Text returns the echo text of v.
func (v Value) Text() string { return Text(v.Native()) }

func (v Value) isList() bool {
	for i, p := range v.arr {
		if n, ok := p.Key.AsInt(); !ok || n != int64(i) {
			return false
		}
	}

	return true
}

// Text converts a script value to the text an echo statement writes:
// nil and false print nothing, true prints "1", floats use 14 significant
// digits, and arrays print "Array".
func Text(x any) string {
	switch t := x.(type) {
	case nil:
		return ""

	case bool:
		if t {
			return "1"
		}

		return ""

	case string:
		return t

	case []byte:
		return string(t)

	case int:
		return strconv.Itoa(t)

	case int64:
		return strconv.FormatInt(t, 10)

	case float64:
		return formatFloat(t)

	case Value:
		return Text(t.Native())

	case error:
		return t.Error()

	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)

	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float())

	case reflect.Bool:
		return Text(rv.Bool())

	case reflect.String:
		return rv.String()

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}

		return "Array"

	case reflect.Array, reflect.Map:
		return "Array"

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ""
		}

		return fmt.Sprint(x)

	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	default:
		return strconv.FormatFloat(f, 'G', 14, 64)
	}
}
