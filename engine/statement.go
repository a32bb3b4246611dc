package engine

import (
	"strings"
)

// stmtKind classifies a single statement of a code block.
type stmtKind uint8

const (
	stmtEval   stmtKind = iota // expression evaluated for its value
	stmtEcho                   // echo a, b, ...
	stmtPrint                  // print a
	stmtAssign                 // name = a, name .= a, name += a, name -= a
)

// statement is one parsed statement of a code block.
type statement struct {
	kind  stmtKind
	name  string   // assignment target
	op    string   // assignment operator
	exprs []string // expression sources
}

// splitStatements splits code into statements on semicolons outside of
// quoted strings and brackets.
//
// Line comments (// and a # that starts a line or statement outside brackets)
// and block comments are dropped. A '$'
// directly before an identifier is dropped outside quoted strings, so $name
// and name refer to the same variable.
func splitStatements(code string) []string {
	var (
		out       []string
		buf       strings.Builder
		quote     byte
		depth     int
		lineStart = true
	)

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			out = append(out, s)
		}

		buf.Reset()
	}

	for i := 0; i < len(code); i++ {
		c := code[i]

		if quote != 0 {
			buf.WriteByte(c)

			switch {
			case c == '\\' && quote != '`' && i+1 < len(code):
				i++
				buf.WriteByte(code[i])
			case c == quote:
				quote = 0
			}

			continue
		}

		switch {
		case c == '"' || c == '\'' || c == '`':
			quote = c
			buf.WriteByte(c)

		case c == '/' && at(code, i+1) == '/',
			c == '#' && depth == 0 && (lineStart || strings.TrimSpace(buf.String()) == ""):
			// Keep the newline so line structure survives.
			for i+1 < len(code) && code[i+1] != '\n' {
				i++
			}

		case c == '/' && at(code, i+1) == '*':
			end := strings.Index(code[i+2:], "*/")
			if end < 0 {
				i = len(code)
			} else {
				i += 2 + end + 1
			}

			buf.WriteByte(' ')

		case c == '$' && isIdentStart(at(code, i+1)):
			// Sigil dropped.

		case c == '(' || c == '[' || c == '{':
			depth++
			buf.WriteByte(c)

		case c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}

			buf.WriteByte(c)

		case c == ';' && depth == 0:
			flush()

		default:
			buf.WriteByte(c)
		}

		switch c {
		case '\n':
			lineStart = true
		case ' ', '\t', '\r':
		default:
			lineStart = false
		}
	}

	flush()

	return out
}

// splitList splits an argument list on commas outside of quoted strings and
// brackets.
func splitList(s string) []string {
	var (
		out   []string
		start int
		quote byte
		depth int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if rest := strings.TrimSpace(s[start:]); rest != "" || len(out) > 0 {
		out = append(out, rest)
	}

	return out
}

// parseStatement classifies a statement produced by splitStatements.
func parseStatement(s string) (statement, error) {
	if rest, ok := cutKeyword(s, "echo"); ok {
		args := splitList(rest)
		for _, a := range args {
			if a == "" {
				return statement{}, ErrStatement
			}
		}

		return statement{kind: stmtEcho, exprs: args}, nil
	}

	if rest, ok := cutKeyword(s, "print"); ok {
		if rest = strings.TrimSpace(rest); rest == "" {
			return statement{}, ErrStatement
		}

		return statement{kind: stmtPrint, exprs: []string{rest}}, nil
	}

	if name, op, rhs, ok := cutAssign(s); ok {
		if rhs == "" {
			return statement{}, ErrStatement
		}

		return statement{kind: stmtAssign, name: name, op: op, exprs: []string{rhs}}, nil
	}

	return statement{kind: stmtEval, exprs: []string{s}}, nil
}

// cutKeyword reports whether s begins with the keyword kw as a whole word and
// returns the remainder.
func cutKeyword(s, kw string) (string, bool) {
	rest, ok := strings.CutPrefix(s, kw)
	if !ok {
		return "", false
	}

	if rest == "" {
		return "", true
	}

	switch rest[0] {
	case ' ', '\t', '\n', '\r', '(', '"', '\'', '`', '[':
		return rest, true
	default:
		return "", false
	}
}

// assignOps lists the recognized assignment operators, longest first.
var assignOps = []string{".=", "+=", "-=", "="}

// cutAssign splits "name op rhs". The comparison operator == is never
// mistaken for an assignment.
func cutAssign(s string) (name, op, rhs string, ok bool) {
	if s == "" || !isIdentStart(s[0]) {
		return "", "", "", false
	}

	n := 1
	for n < len(s) && isIdentPart(s[n]) {
		n++
	}

	name = s[:n]
	rest := strings.TrimLeft(s[n:], " \t\r\n")

	for _, candidate := range assignOps {
		after, found := strings.CutPrefix(rest, candidate)
		if !found {
			continue
		}

		if candidate == "=" && (strings.HasPrefix(after, "=") || strings.HasPrefix(after, ">")) {
			return "", "", "", false
		}

		return name, candidate, strings.TrimSpace(after), true
	}

	return "", "", "", false
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}

	return 0
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}
