package log

import (
	"io"
	"strings"
	"time"
)

// Option configures a [Logger] made by [Make] or [Logger.Wrap].
type Option func(*config)

// WithDefaults resets every setting to its default and writes to w.
func WithDefaults(w io.Writer) Option {
	return func(c *config) { *c = defaults(w) }
}

// WithOutput sets the destination of log records. A nil writer discards
// them.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return func(c *config) { c.output = w }
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout: a [time] layout name such as
// "RFC3339Nano" or "Kitchen", a short alias ("ms", "us", "ns"), or a custom
// layout used verbatim. An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return func(c *config) { c.formatTime = format }
}

// WithCaller adds the source file and line of the logging call.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty selects the colorized handlers.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

var namedLayouts = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"ms":          time.StampMilli,
	"stampmilli":  time.StampMilli,
	"us":          time.StampMicro,
	"stampmicro":  time.StampMicro,
	"ns":          time.StampNano,
	"stampnano":   time.StampNano,
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.ToLower(strings.TrimSpace(layout))
	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if strings.TrimSpace(layout) == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
