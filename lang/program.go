package lang

import (
	"io"
	"iter"
	"strings"
)

// Op identifies the kind of an [Instruction].
type Op uint8

const (
	// OpEmitLiteral writes fixed text to the program's output.
	OpEmitLiteral Op = iota

	// OpRunCode runs embedded code verbatim.
	OpRunCode
)

// String returns a string representation of the instruction kind.
func (o Op) String() string {
	switch o {
	case OpEmitLiteral:
		return "echo"

	case OpRunCode:
		return "code"

	default:
		return "unknown"
	}
}

// Instruction is a single unit of a [Program].
//
// For [OpEmitLiteral], Text holds the literal with every '"' escaped as `\"`.
// For [OpRunCode], Text holds the code block exactly as written between the
// delimiters. Line is the 1-based line on which Text begins.
type Instruction struct {
	Op   Op
	Text string
	Line int
}

// EmitLiteral returns an [OpEmitLiteral] instruction for already escaped
// text.
func EmitLiteral(text string) Instruction {
	return Instruction{Op: OpEmitLiteral, Text: text}
}

// RunCode returns an [OpRunCode] instruction.
func RunCode(text string) Instruction {
	return Instruction{Op: OpRunCode, Text: text}
}

// Literal returns the text an [OpEmitLiteral] instruction writes when
// executed, with the `\"` escapes undone. Backslashes are never escaped by
// the scanner, so a left-to-right replacement is exact.
//
// For [OpRunCode] it returns Text unchanged.
func (in Instruction) Literal() string {
	if in.Op != OpEmitLiteral {
		return in.Text
	}

	return strings.ReplaceAll(in.Text, `\"`, `"`)
}

// Statement returns the program text of the instruction:
//
//	echo "<text>";   // OpEmitLiteral
//	<text>\n         // OpRunCode
func (in Instruction) Statement() string {
	switch in.Op {
	case OpEmitLiteral:
		return `echo "` + in.Text + `";`

	case OpRunCode:
		return in.Text + "\n"

	default:
		return ""
	}
}

// Program is the ordered instruction sequence produced by [Scan].
type Program struct {
	Instructions []Instruction
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Instructions)
}

// All returns an iterator over all instructions in order.
func (p *Program) All() iter.Seq[Instruction] {
	return func(yield func(Instruction) bool) {
		if p == nil {
			return
		}

		for _, in := range p.Instructions {
			if !yield(in) {
				return
			}
		}
	}
}

// String returns the program text.
func (p *Program) String() string {
	var sb strings.Builder

	_, _ = p.WriteTo(&sb)

	return sb.String()
}

// WriteTo writes the program text to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for in := range p.All() {
		n, err := io.WriteString(w, in.Statement())
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}
