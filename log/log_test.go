package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// plain returns a non-pretty logger writing to buf without timestamps.
func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{
		WithPretty(false),
		WithTimeLayout("none"),
	}, opts...)...)
}

func decode(t *testing.T, line string) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}

	return m
}

func TestLogger_JSONRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := plain(&buf, WithLevel(LevelTrace))
	l.TraceContext(t.Context(), "cache lookup",
		slog.String("source_key", "k1"),
		slog.Bool("cache_hit", true),
	)

	got := decode(t, buf.String())

	want := map[string]any{
		"level":      "TRACE",
		"msg":        "cache lookup",
		"source_key": "k1",
		"cache_hit":  true,
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}

	if _, ok := got["time"]; ok {
		t.Errorf("time present with layout none: %v", got)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level Level
		want  []string
	}{
		{LevelTrace, []string{"t", "d", "i", "w", "e"}},
		{LevelInfo, []string{"i", "w", "e"}},
		{LevelError, []string{"e"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			l := plain(&buf, WithLevel(tt.level), WithFormat(FormatText))
			l.Trace("t")
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			var got []string
			for line := range strings.Lines(buf.String()) {
				_, msg, _ := strings.Cut(strings.TrimSpace(line), "msg=")
				got = append(got, msg)
			}

			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("logged %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_TimeLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout  string
		present bool
	}{
		{"", false},
		{"none", false},
		{"RFC3339", true},
		{"kitchen", true},
		{"2006", true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		l := Make(&buf, WithPretty(false), WithFormat(FormatText), WithTimeLayout(tt.layout))
		l.Info("x")

		if got := strings.Contains(buf.String(), "time="); got != tt.present {
			t.Errorf("layout %q: time present = %v, want %v (%q)", tt.layout, got, tt.present, buf.String())
		}
	}
}

func TestLogger_WithAndWrap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := plain(&buf, WithLevel(LevelWarn))
	scoped := base.With(slog.String("command", "render"))
	verbose := scoped.Wrap(WithLevel(LevelDebug), WithFormat(FormatText))

	if base.Level() != LevelWarn || verbose.Level() != LevelDebug {
		t.Errorf("levels = %v, %v", base.Level(), verbose.Level())
	}

	if base.Format() != FormatJSON || verbose.Format() != FormatText {
		t.Errorf("formats = %v, %v", base.Format(), verbose.Format())
	}

	verbose.Debug("scan complete")

	if out := buf.String(); !strings.Contains(out, "command=render") {
		t.Errorf("Wrap() dropped attributes added by With(): %q", out)
	}

	buf.Reset()
	base.Warn("plain")

	if strings.Contains(buf.String(), "command") {
		t.Errorf("With() changed the original logger: %q", buf.String())
	}
}

func TestLogger_Caller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := plain(&buf, WithFormat(FormatText), WithCaller(true))
	l.Info("direct")
	l.InfoContext(context.Background(), "with context")

	for line := range strings.Lines(buf.String()) {
		if !strings.Contains(line, "log_test.go:") {
			t.Errorf("caller not reported at the call site: %q", line)
		}
	}
}

func TestLogger_Zero(t *testing.T) {
	t.Parallel()

	var l Logger

	l.Error("discarded")
	l.With(slog.Int("n", 1)).Info("discarded")

	if l.Allows(t.Context(), LevelError) {
		t.Error("zero Logger allows records")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("zero Logger reports %v/%v", l.Level(), l.Format())
	}

	var buf bytes.Buffer

	w := l.Wrap(WithOutput(&buf), WithPretty(false))
	w.Info("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("Wrap() of zero Logger = %q", buf.String())
	}
}

// failure is an error with a structured log form.
type failure struct{ line int }

func (failure) Error() string { return "unterminated code block" }

func (f failure) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", f.Error()),
		slog.Int("line", f.line),
	)
}

func TestLogger_LogValuer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := plain(&buf)
	l.Error("render failed", slog.Any("error", failure{line: 3}))

	got := decode(t, buf.String())

	group, ok := got["error"].(map[string]any)
	if !ok || group["line"] != float64(3) {
		t.Errorf("error = %#v, want its LogValue group", got["error"])
	}
}
