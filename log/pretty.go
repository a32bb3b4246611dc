package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
)

const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes colorized records for terminals: key=value pairs in
// text format, or one indented JSON object per record in json format.
// Groups are flattened into dotted keys.
type prettyHandler struct {
	cfg    config
	mu     *sync.Mutex
	attrs  []slog.Attr // from WithAttrs, already qualified
	prefix string      // open groups, each followed by '.'
}

func newPrettyHandler(cfg config) *prettyHandler {
	return &prettyHandler{cfg: cfg, mu: new(sync.Mutex)}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.cfg.level)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = qualify(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix += name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.cfg.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.cfg.caller {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = qualify(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	if h.cfg.format == FormatJSON {
		writeJSON(&buf, fields)
	} else {
		writeText(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.cfg.output.Write(buf.Bytes())

	return err
}

// qualify appends a to out with its key prefixed, resolving LogValuers and
// flattening groups. Empty attributes are dropped.
func qualify(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return out
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			out = qualify(out, prefix, g)
		}

		return out
	}

	a.Key = prefix + a.Key

	return append(out, a)
}

func writeText(buf *bytes.Buffer, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		paint(buf, ansiGray, a.Key)
		buf.WriteByte('=')

		color, text := render(a.Value)
		paint(buf, color, text)
	}

	buf.WriteByte('\n')
}

func writeJSON(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		paint(buf, ansiGray, strconv.Quote(a.Key))
		buf.WriteString(": ")

		color, text := render(a.Value)

		switch a.Value.Kind() {
		case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		default:
			quoted, _ := json.Marshal(text)
			text = string(quoted)
		}

		paint(buf, color, text)

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

func paint(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(ansiReset)
}

// render returns the color and text of a resolved, non-group value.
func render(v slog.Value) (color, text string) {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return ansiYellow, v.String()

	case slog.KindBool:
		if v.Bool() {
			return ansiGreen, "true"
		}

		return ansiRed, "false"

	case slog.KindDuration:
		return ansiMagenta, v.Duration().String()

	case slog.KindTime:
		return ansiBlue, v.Time().Format(DefaultTimeLayout)

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return levelColor(level), Level(level).label()
		}
	}

	return ansiCyan, v.String()
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiGreen
	case level >= slog.LevelDebug:
		return ansiBlue
	default:
		return ansiGray
	}
}
