package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var ansi = regexp.MustCompile("\033\\[[0-9;]*m")

func prettyOutput(t *testing.T, format Format, log func(Logger)) string {
	t.Helper()

	var buf bytes.Buffer

	log(Make(&buf,
		WithPretty(true),
		WithFormat(format),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	))

	return ansi.ReplaceAllString(buf.String(), "")
}

func TestPretty_Text(t *testing.T) {
	t.Parallel()

	out := prettyOutput(t, FormatText, func(l Logger) {
		l.With(slog.String("command", "render")).
			WithGroup("scan").
			LogAttrs(t.Context(), slog.Level(LevelTrace), "scan complete",
				slog.Int("instruction_count", 3),
				slog.Group("cache", slog.Bool("hit", false)),
			)
	})

	want := "level=TRACE msg=scan complete command=render " +
		"scan.instruction_count=3 scan.cache.hit=false\n"

	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestPretty_JSON(t *testing.T) {
	t.Parallel()

	out := prettyOutput(t, FormatJSON, func(l Logger) {
		l.With(slog.String("path", `views/"page".php`)).
			Debug("rendered", slog.Int("output_bytes", 42), slog.Bool("ok", true))
	})

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON once colors are removed: %v\n%s", err, out)
	}

	want := map[string]any{
		"level":        "DEBUG",
		"msg":          "rendered",
		"path":         `views/"page".php`,
		"output_bytes": float64(42),
		"ok":           true,
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %#v, want %#v", k, got[k], v)
		}
	}
}

func TestPretty_LevelAndCaller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithLevel(LevelWarn), WithCaller(true))
	l.Info("dropped")
	l.Warn("kept")

	out := ansi.ReplaceAllString(buf.String(), "")

	if strings.Contains(out, "dropped") {
		t.Errorf("record below level written: %q", out)
	}

	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "pretty_test.go:") {
		t.Errorf("output = %q", out)
	}

	if !strings.Contains(buf.String(), ansiYellow+"WARN"+ansiReset) {
		t.Errorf("warn level not colored: %q", buf.String())
	}
}
