package lang

import "strings"

// Delimiters recognized by [Scan].
const (
	// OpenDelim opens an embedded code block.
	OpenDelim = "<?"

	// CloseDelim closes an embedded code block.
	CloseDelim = "?>"

	// TagName is the optional tag name skipped directly after [OpenDelim].
	TagName = "php"
)

// mode is the scanner state: inside literal markup or inside a code block.
type mode uint8

const (
	modeLiteral mode = iota
	modeCode
)

// scanner holds the private state of a single [Scan] call.
type scanner struct {
	input     string
	pos       int
	mode      mode
	buf       strings.Builder // pending literal text, or code text in modeCode
	line      int             // current 1-based line
	blockLine int             // line where the open code block started
	textLine  int             // line where buf started accumulating
	prog      *Program
}

// Scan converts a template document into a [Program].
//
// Literal text is emitted as [OpEmitLiteral] instructions with every '"'
// escaped as `\"`. Text between [OpenDelim] and [CloseDelim] is emitted
// verbatim as [OpRunCode] instructions. A [TagName] directly following the
// open delimiter is skipped.
//
// Delimiters are matched as plain two-byte sequences. Occurrences inside
// quoted strings of a code block are not special, and literal text has no
// way to escape an open delimiter.
//
// Scan fails with a [*ScanError] if a code block is opened inside another
// code block or is never closed. It never returns a partial program.
func Scan(text string) (*Program, error) {
	s := scanner{
		input:    text,
		line:     1,
		textLine: 1,
	}

	return s.run()
}

func (s *scanner) run() (*Program, error) {
	s.prog = new(Program)

	for s.pos < len(s.input) {
		c := s.input[s.pos]

		switch {
		case c == '\n':
			s.line++
			s.buf.WriteByte(c)
			s.pos++

		case c == '"' && s.mode == modeLiteral:
			s.buf.WriteString(`\"`)
			s.pos++

		case c == OpenDelim[0] && s.peek(1) == OpenDelim[1]:
			if s.mode == modeCode {
				return nil, &ScanError{Kind: NestedCodeBlock, Line: s.line}
			}

			s.open()

		case c == CloseDelim[0] && s.peek(1) == CloseDelim[1] &&
			s.mode == modeCode:
			s.close()

		default:
			s.buf.WriteByte(c)
			s.pos++
		}
	}

	if s.mode == modeCode {
		return nil, &ScanError{Kind: UnterminatedCodeBlock, Line: s.blockLine}
	}

	// Trailing literal text. An input without any code block always yields
	// exactly one (possibly empty) literal.
	if s.buf.Len() > 0 || len(s.prog.Instructions) == 0 {
		s.flush(OpEmitLiteral)
	}

	return s.prog, nil
}

// peek returns the byte n positions ahead of the cursor, or 0 past the end.
func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.input) {
		return s.input[s.pos+n]
	}

	return 0
}

// open flushes pending literal text (even if empty) and enters modeCode.
func (s *scanner) open() {
	s.flush(OpEmitLiteral)

	s.mode = modeCode
	s.blockLine = s.line
	s.pos += len(OpenDelim)

	if strings.HasPrefix(s.input[s.pos:], TagName) {
		s.pos += len(TagName)
	}

	s.textLine = s.line
}

// close flushes the accumulated code and returns to modeLiteral.
func (s *scanner) close() {
	s.flush(OpRunCode)

	s.mode = modeLiteral
	s.pos += len(CloseDelim)
	s.textLine = s.line
}

func (s *scanner) flush(op Op) {
	s.prog.Instructions = append(s.prog.Instructions, Instruction{
		Op:   op,
		Text: s.buf.String(),
		Line: s.textLine,
	})

	s.buf.Reset()
}
