package macro

import "github.com/ardnew/macro/pkg"

// Error is a failure to locate, load or render a template, carrying
// structured logging attributes.
type Error = pkg.Error[macroError]

type macroError struct{}

// NewError returns an error with message msg.
func NewError(msg string) *Error { return pkg.NewError[macroError](msg) }

// WrapError returns the first *Error in the chain of err, or a new Error
// caused by err.
func WrapError(err error) *Error { return pkg.WrapError[macroError](err) }

var (
	ErrNoSource    = NewError("no template source")
	ErrResolve     = NewError("failed to resolve template path")
	ErrMaterialize = NewError("failed to materialize inline code")
	ErrRead        = NewError("failed to read template")
	ErrScan        = NewError("failed to scan template")
	ErrExecute     = NewError("failed to execute template")
	ErrWrite       = NewError("failed to write output")
	ErrModel       = NewError("failed to load model")
)
