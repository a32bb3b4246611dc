package engine

import (
	"errors"
	"slices"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want []string
	}{
		{"empty", "   ", nil},
		{"single", " echo 1; ", []string{"echo 1"}},
		{"multiple", "a = 1; b = 2;c", []string{"a = 1", "b = 2", "c"}},
		{"quoted semicolon", `echo "a;b"; x`, []string{`echo "a;b"`, "x"}},
		{"single quotes", `echo 'it\'s;'`, []string{`echo 'it\'s;'`}},
		{"brackets", "f([1; 2]); g({a: 1})", []string{"f([1; 2])", "g({a: 1})"}},
		{"sigil", "$x = $y + 1", []string{"x = y + 1"}},
		{"sigil in string", `echo "$x"`, []string{`echo "$x"`}},
		{"dollar alone", "echo 1 $ 2", []string{"echo 1 $ 2"}},
		{"line comment", "a; // note; b\nc", []string{"a", "c"}},
		{"hash comment", "# note; x\necho 1; # trailing\n", []string{"echo 1"}},
		{"hash in closure", "map(xs, #*2)", []string{"map(xs, #*2)"}},
		{"block comment", "a /* ; */ b; c", []string{"a   b", "c"}},
		{"url in string", `echo "http://x"`, []string{`echo "http://x"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := splitStatements(tt.code); !slices.Equal(got, tt.want) {
				t.Errorf("splitStatements(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestParseStatement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src   string
		kind  stmtKind
		name  string
		op    string
		exprs []string
	}{
		{"echo a, b", stmtEcho, "", "", []string{"a", "b"}},
		{`echo f(1, 2), "x,y"`, stmtEcho, "", "", []string{"f(1, 2)", `"x,y"`}},
		{"echo(a)", stmtEcho, "", "", []string{"(a)"}},
		{"echo", stmtEcho, "", "", nil},
		{"echoes", stmtEval, "", "", []string{"echoes"}},
		{"print a + 1", stmtPrint, "", "", []string{"a + 1"}},
		{"x = 1", stmtAssign, "x", "=", []string{"1"}},
		{"total+=n", stmtAssign, "total", "+=", []string{"n"}},
		{"s .= 'x'", stmtAssign, "s", ".=", []string{"'x'"}},
		{"n -= 2", stmtAssign, "n", "-=", []string{"2"}},
		{"x == 1", stmtEval, "", "", []string{"x == 1"}},
		{"x != 1", stmtEval, "", "", []string{"x != 1"}},
		{"a.b", stmtEval, "", "", []string{"a.b"}},
	}

	for _, tt := range tests {
		st, err := parseStatement(tt.src)
		if err != nil {
			t.Fatalf("parseStatement(%q) error = %v", tt.src, err)
		}

		if st.kind != tt.kind || st.name != tt.name || st.op != tt.op ||
			!slices.Equal(st.exprs, tt.exprs) {
			t.Errorf("parseStatement(%q) = %+v", tt.src, st)
		}
	}
}

func TestParseStatement_Malformed(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"x =", "print", "echo a,", "echo ,a"} {
		if _, err := parseStatement(src); !errors.Is(err, ErrStatement) {
			t.Errorf("parseStatement(%q) error = %v, want ErrStatement", src, err)
		}
	}
}
