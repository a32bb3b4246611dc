package engine

import "github.com/ardnew/macro/pkg"

// Error is a failure to evaluate a program, carrying structured logging
// attributes.
type Error = pkg.Error[engineError]

type engineError struct{}

// NewError returns an error with message msg.
func NewError(msg string) *Error { return pkg.NewError[engineError](msg) }

// WrapError returns the first *Error in the chain of err, or a new Error
// caused by err.
func WrapError(err error) *Error { return pkg.WrapError[engineError](err) }

var (
	ErrCompile   = NewError("failed to compile statement")
	ErrEvaluate  = NewError("failed to evaluate statement")
	ErrStatement = NewError("malformed statement")
	ErrOutput    = NewError("failed to write output")
	ErrProgram   = NewError("invalid program")
)
