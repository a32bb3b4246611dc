package cmd

import "github.com/ardnew/macro/pkg"

// Error is a command failure with structured logging support.
type Error = pkg.Error[commandError]

type commandError struct{}

// NewError returns an error with message msg.
func NewError(msg string) *Error { return pkg.NewError[commandError](msg) }

// WrapError returns the first *Error in the chain of err, or a new Error
// caused by err.
func WrapError(err error) *Error { return pkg.WrapError[commandError](err) }

var (
	ErrNoTemplate  = NewError("no template given (use a path, '-' or --code)")
	ErrReadInput   = NewError("read template input")
	ErrModelSet    = NewError("cannot set fields on a non-mapping model")
	ErrWriteOutput = NewError("write output")
	ErrCheck       = NewError("invalid templates")
	ErrYAMLMarshal = NewError("marshal YAML")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
)
