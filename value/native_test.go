package value

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestValue_Native(t *testing.T) {
	t.Parallel()

	host := point{1, 2}

	tests := []struct {
		name string
		v    Value
		want any
	}{
		{"int", Int(7), 7},
		{"float", Float(1.5), 1.5},
		{"bool", Bool(true), true},
		{"string", String("s"), "s"},
		{"bytes", Bytes([]byte("b")), []byte("b")},
		{"list", List(Int(1), String("x")), []any{1, "x"}},
		{"empty array", Array(), []any{}},
		{
			"map",
			Array(Pair{String("a"), Int(1)}, Pair{Int(5), Bool(false)}),
			map[string]any{"a": 1, "5": false},
		},
		{
			"out of order keys",
			Array(Pair{Int(1), Int(1)}, Pair{Int(0), Int(0)}),
			map[string]any{"1": 1, "0": 0},
		},
		{
			"duplicate keys",
			Array(Pair{String("k"), Int(1)}, Pair{String("k"), Int(2)}),
			map[string]any{"k": 2},
		},
		{"nested", List(List(Int(1))), []any{[]any{1}}},
		{"opaque", Opaque(host), host},
		{"opaque nil", Opaque(nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.v.Native(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Native() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	var nilPtr *point

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"true", true, "1"},
		{"false", false, ""},
		{"int", 42, "42"},
		{"negative", int64(-3), "-3"},
		{"uint", uint8(200), "200"},
		{"float", 0.1 + 0.2, "0.3"},
		{"float integral", 3.0, "3"},
		{"float million", 1e6, "1000000"},
		{"float large", 1e20, "1E+20"},
		{"float pi", math.Pi, "3.1415926535898"},
		{"nan", math.NaN(), "NAN"},
		{"inf", math.Inf(-1), "-INF"},
		{"string", "s", "s"},
		{"bytes", []byte("b"), "b"},
		{"list", []any{1}, "Array"},
		{"map", map[string]any{}, "Array"},
		{"value", Int(9), "9"},
		{"error", errors.New("boom"), "boom"},
		{"nil pointer", nilPtr, ""},
		{"struct", point{1, 2}, "{1 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	if n, ok := Int(3).AsInt(); !ok || n != 3 {
		t.Errorf("AsInt() = %d, %v", n, ok)
	}

	if _, ok := String("3").AsInt(); ok {
		t.Error("AsInt() on string should report false")
	}

	arr := Array(Pair{String("a"), Int(1)}, Pair{String("a"), Int(2)})
	if got, ok := arr.Get(String("a")); !ok || !got.Equal(Int(2)) {
		t.Errorf("Get() = %v, %v, want last duplicate", got, ok)
	}

	if _, ok := arr.Get(String("b")); ok {
		t.Error("Get() of missing key should report false")
	}

	if arr.Len() != 2 || String("abc").Len() != 3 || Int(1).Len() != 0 {
		t.Error("Len() mismatch")
	}
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	v := Array(
		Pair{Int(0), String("x")},
		Pair{String("k"), Float(1.5)},
		Pair{String("o"), Opaque(point{})},
	)

	want := `array{int(0): string("x"), string("k"): float(1.5), string("o"): opaque(value.point)}`
	if got := v.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
