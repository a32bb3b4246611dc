package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"time"
)

// callerSkip is the number of frames between runtime.Callers and the code
// that called a logging function: Callers, Logger.log and the exported
// function itself.
const callerSkip = 3

// Logger is an immutable slog logger with trace support.
// The zero Logger discards everything.
type Logger struct {
	*slog.Logger

	cfg   config
	attrs []slog.Attr
}

// Make returns a logger writing to w with the default settings overridden
// by opts.
func Make(w io.Writer, opts ...Option) Logger {
	return newLogger(defaults(w).with(opts...), nil)
}

func newLogger(cfg config, attrs []slog.Attr) Logger {
	h := cfg.handler()
	if len(attrs) > 0 {
		h = h.WithAttrs(attrs)
	}

	return Logger{Logger: slog.New(h), cfg: cfg, attrs: attrs}
}

// Wrap returns a copy of l reconfigured by opts. Attributes added with
// [Logger.With] are kept.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := l.cfg
	if l.Logger == nil {
		cfg = defaults(nil)
	}

	return newLogger(cfg.with(opts...), l.attrs)
}

// With returns a copy of l that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil || len(attrs) == 0 {
		return l
	}

	return Logger{
		Logger: slog.New(l.Handler().WithAttrs(attrs)),
		cfg:    l.cfg,
		attrs:  slices.Concat(l.attrs, attrs),
	}
}

// Level returns the minimum level written.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.cfg.level
}

// Format returns the record encoding.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.cfg.format
}

// Allows reports whether a record at level would be written, so callers
// can skip building expensive attributes. It is false for the zero Logger.
func (l Logger) Allows(ctx context.Context, level Level) bool {
	return l.Logger != nil && l.Enabled(ctx, slog.Level(level))
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelError, msg, attrs)
}

// log writes one record. It must be called directly by an exported logging
// function so the recorded caller is correct.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if !l.Allows(ctx, level) {
		return
	}

	var pcs [1]uintptr

	runtime.Callers(callerSkip, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)

	_ = l.Handler().Handle(ctx, r)
}
