package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/macro/pkg"
)

// Error is a failure to read, scan or format a template, carrying
// structured logging attributes.
type Error = pkg.Error[langError]

type langError struct{}

// NewError returns an error with message msg.
func NewError(msg string) *Error { return pkg.NewError[langError](msg) }

// WrapError returns the first *Error in the chain of err, or a new Error
// caused by err.
func WrapError(err error) *Error { return pkg.WrapError[langError](err) }

var (
	ErrUnterminatedCodeBlock = NewError("unterminated code block")
	ErrNestedCodeBlock       = NewError("nested code block")
	ErrReadInput             = NewError("failed to read input")
	ErrInvalidFormat         = NewError("invalid format")
	ErrCacheEntry            = NewError("invalid cache entry")
)

// ScanKind identifies why a scan failed.
type ScanKind int

const (
	// UnterminatedCodeBlock means a code block was still open at end of input.
	UnterminatedCodeBlock ScanKind = iota + 1

	// NestedCodeBlock means an open delimiter appeared inside a code block.
	NestedCodeBlock
)

// String returns a string representation of the scan failure kind.
func (k ScanKind) String() string {
	switch k {
	case UnterminatedCodeBlock:
		return "UnterminatedCodeBlock"

	case NestedCodeBlock:
		return "NestedCodeBlock"

	default:
		return "Unknown"
	}
}

// ScanError is returned by [Scan] when a template cannot be converted to a
// program. No partial program accompanies it.
//
// For [UnterminatedCodeBlock], Line is the line where the unclosed block
// opened. For [NestedCodeBlock], Line is the line of the offending open
// delimiter.
type ScanError struct {
	Kind ScanKind
	Line int
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	var buf strings.Builder

	switch e.Kind {
	case UnterminatedCodeBlock:
		buf.WriteString("unclosed code block started at line ")
	case NestedCodeBlock:
		buf.WriteString("nested code block at line ")
	default:
		buf.WriteString("scan error at line ")
	}

	buf.WriteString(strconv.Itoa(e.Line))

	return buf.String()
}

// Is reports whether target is the sentinel matching e.Kind, so callers can
// write errors.Is(err, ErrNestedCodeBlock).
func (e *ScanError) Is(target error) bool {
	switch e.Kind {
	case UnterminatedCodeBlock:
		return target == ErrUnterminatedCodeBlock
	case NestedCodeBlock:
		return target == ErrNestedCodeBlock
	default:
		return false
	}
}

// LogValue implements slog.LogValuer.
func (e *ScanError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Kind.String()),
		slog.Int("line", e.Line),
	)
}
