package pkg

import (
	"errors"
	"log/slog"
	"slices"
)

// Error is a failure with a fixed message, an optional cause and attributes
// for structured logging. Values are never modified; [Error.Wrap] and
// [Error.With] return new errors that still match their origin under
// [errors.Is].
//
// The type parameter only keeps the errors of different packages apart.
// A package declares its own error type as
//
//	type Error = pkg.Error[domain]
//
// where domain is an unexported empty struct.
type Error[D any] struct {
	msg   string
	cause error
	attrs []slog.Attr
}

// NewError returns an error with message msg, typically a sentinel.
func NewError[D any](msg string) *Error[D] {
	return &Error[D]{msg: msg}
}

// WrapError returns the first *Error[D] in the chain of err, or a new one
// with no message caused by err.
func WrapError[D any](err error) *Error[D] {
	var e *Error[D]
	if errors.As(err, &e) {
		return e
	}

	return &Error[D]{cause: err}
}

// Error returns "msg: cause", or whichever of the two is present.
func (e *Error[D]) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error[D]) Unwrap() error { return e.cause }

// Is reports whether target is an error of the same type and message.
// Errors without a message match nothing.
func (e *Error[D]) Is(target error) bool {
	t, ok := target.(*Error[D])

	return ok && e.msg != "" && t.msg == e.msg
}

// Attrs returns a copy of the logging attributes of e.
func (e *Error[D]) Attrs() []slog.Attr { return slices.Clone(e.attrs) }

// LogValue groups the message, the cause and the attributes of e.
func (e *Error[D]) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error[D]) Wrap(err error) *Error[D] {
	c := *e
	c.cause = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error[D]) With(attrs ...slog.Attr) *Error[D] {
	c := *e
	c.attrs = slices.Concat(e.attrs, attrs)

	return &c
}
