package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Instruction
	}{
		{
			name:  "empty",
			input: "",
			want:  []Instruction{{OpEmitLiteral, "", 1}},
		},
		{
			name:  "literal only",
			input: "Hello",
			want:  []Instruction{{OpEmitLiteral, "Hello", 1}},
		},
		{
			name:  "code between literals",
			input: "Hello <?php echo 1; ?> world",
			want: []Instruction{
				{OpEmitLiteral, "Hello ", 1},
				{OpRunCode, " echo 1; ", 1},
				{OpEmitLiteral, " world", 1},
			},
		},
		{
			name:  "code only",
			input: "<?php echo 1; ?>",
			want: []Instruction{
				{OpEmitLiteral, "", 1},
				{OpRunCode, " echo 1; ", 1},
			},
		},
		{
			name:  "short open tag",
			input: "<? x ?>",
			want: []Instruction{
				{OpEmitLiteral, "", 1},
				{OpRunCode, " x ", 1},
			},
		},
		{
			name:  "tag name without space",
			input: "<?phpx?>",
			want: []Instruction{
				{OpEmitLiteral, "", 1},
				{OpRunCode, "x", 1},
			},
		},
		{
			name:  "partial tag name kept",
			input: "<?ph?>",
			want: []Instruction{
				{OpEmitLiteral, "", 1},
				{OpRunCode, "ph", 1},
			},
		},
		{
			name:  "quotes escaped in literal",
			input: `say "hi"`,
			want:  []Instruction{{OpEmitLiteral, `say \"hi\"`, 1}},
		},
		{
			name:  "quotes verbatim in code",
			input: `<? echo "a"; ?>`,
			want: []Instruction{
				{OpEmitLiteral, "", 1},
				{OpRunCode, ` echo "a"; `, 1},
			},
		},
		{
			name:  "question mark in code",
			input: "<? a ? b : c ?>",
			want: []Instruction{
				{OpEmitLiteral, "", 1},
				{OpRunCode, " a ? b : c ", 1},
			},
		},
		{
			name:  "close delimiter in literal",
			input: "a ?> b",
			want:  []Instruction{{OpEmitLiteral, "a ?> b", 1}},
		},
		{
			name:  "adjacent blocks",
			input: "<?a?><?b?>",
			want: []Instruction{
				{OpEmitLiteral, "", 1},
				{OpRunCode, "a", 1},
				{OpEmitLiteral, "", 1},
				{OpRunCode, "b", 1},
			},
		},
		{
			name:  "lines tracked",
			input: "one\ntwo <?\nx\n?>\nthree",
			want: []Instruction{
				{OpEmitLiteral, "one\ntwo ", 1},
				{OpRunCode, "\nx\n", 2},
				{OpEmitLiteral, "\nthree", 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prog, err := Scan(tt.input)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}

			if len(prog.Instructions) != len(tt.want) {
				t.Fatalf("Scan() got %d instructions, want %d: %+v",
					len(prog.Instructions), len(tt.want), prog.Instructions)
			}

			for i, want := range tt.want {
				if got := prog.Instructions[i]; got != want {
					t.Errorf("instruction %d = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestScan_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		kind     ScanKind
		line     int
		sentinel error
	}{
		{
			name:     "unterminated",
			input:    "Hello <?php echo 1;",
			kind:     UnterminatedCodeBlock,
			line:     1,
			sentinel: ErrUnterminatedCodeBlock,
		},
		{
			name:     "unterminated reports start line",
			input:    "a\nb\n<? x\ny\nz",
			kind:     UnterminatedCodeBlock,
			line:     3,
			sentinel: ErrUnterminatedCodeBlock,
		},
		{
			name:     "nested",
			input:    "<? a <? b ?> ?>",
			kind:     NestedCodeBlock,
			line:     1,
			sentinel: ErrNestedCodeBlock,
		},
		{
			name:     "nested reports current line",
			input:    "<? a\n\n<? b ?>",
			kind:     NestedCodeBlock,
			line:     3,
			sentinel: ErrNestedCodeBlock,
		},
		{
			name:     "open at end",
			input:    "text <?",
			kind:     UnterminatedCodeBlock,
			line:     1,
			sentinel: ErrUnterminatedCodeBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prog, err := Scan(tt.input)
			if err == nil {
				t.Fatalf("Scan() expected error, got program %+v", prog)
			}

			if prog != nil {
				t.Errorf("Scan() returned partial program %+v", prog)
			}

			var se *ScanError
			if !errors.As(err, &se) {
				t.Fatalf("Scan() error type = %T, want *ScanError", err)
			}

			if se.Kind != tt.kind || se.Line != tt.line {
				t.Errorf("Scan() error = {%v %d}, want {%v %d}",
					se.Kind, se.Line, tt.kind, tt.line)
			}

			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
		})
	}
}

func TestScan_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain",
		`"quoted" text`,
		"a <? b ?> c <? d ?> e",
		"<?php echo 1; ?>",
		"line\n<?\n?>\n",
		`<? echo "x"; ?>"`,
	}

	for _, input := range inputs {
		prog, err := Scan(input)
		if err != nil {
			t.Fatalf("Scan(%q) error = %v", input, err)
		}

		if prog.Len() == 0 {
			t.Errorf("Scan(%q) returned an empty program", input)
		}

		var literal strings.Builder

		for in := range prog.All() {
			if in.Op == OpEmitLiteral {
				literal.WriteString(in.Literal())
			}
		}

		// Every literal instruction, unescaped, reproduces the markup.
		if !strings.Contains(input, "<?") && literal.String() != input {
			t.Errorf("Scan(%q) literal round trip = %q", input, literal.String())
		}

		for in := range prog.All() {
			if in.Op == OpEmitLiteral &&
				strings.Count(in.Text, `"`) != strings.Count(in.Text, `\"`) {
				t.Errorf("Scan(%q) unescaped quote in %q", input, in.Text)
			}
		}
	}
}

func TestScan_Deterministic(t *testing.T) {
	t.Parallel()

	const input = "a <? b ?> \"c\" <?php d ?>"

	first, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	second, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("Scan() not deterministic:\n%q\n%q", first, second)
	}
}

func TestScanError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *ScanError
		want string
	}{
		{&ScanError{UnterminatedCodeBlock, 7}, "unclosed code block started at line 7"},
		{&ScanError{NestedCodeBlock, 2}, "nested code block at line 2"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
