package macro

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/macro/log"
)

// messages decodes the JSON records in out and returns their messages.
func messages(t *testing.T, out string) []string {
	t.Helper()

	var msgs []string

	for line := range strings.Lines(out) {
		var rec struct {
			Level string `json:"level"`
			Msg   string `json:"msg"`
		}

		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}

		msgs = append(msgs, rec.Msg)
	}

	return msgs
}

func TestRenderer_TraceLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	r, _ := newRenderer(t, WithLogger(logger))
	src := Source{Code: "<?= model * 2 ?> " + t.Name()}

	got, err := r.Execute(t.Context(), src, 21)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if want := "42 " + t.Name(); got != want {
		t.Fatalf("Execute() = %q, want %q", got, want)
	}

	first := messages(t, buf.String())

	for _, want := range []string{
		"materialized inline code",
		"read template",
		"cache lookup",
		"scan complete",
		"evaluate program",
		"compiled statement",
		"rendered template",
	} {
		if !slices.Contains(first, want) {
			t.Errorf("first render did not log %q: %v", want, first)
		}
	}

	buf.Reset()

	if _, err := r.Execute(t.Context(), src, 21); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	second := messages(t, buf.String())

	if !slices.Contains(second, "reuse inline file") {
		t.Errorf("second render did not reuse the inline file: %v", second)
	}

	if slices.Contains(second, "scan complete") {
		t.Errorf("second render scanned again: %v", second)
	}
}

func TestRenderer_LogLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelDebug),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	r, _ := newRenderer(t, WithLogger(logger))

	if _, err := r.Execute(t.Context(), Source{Code: "ok " + t.Name()}, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	msgs := messages(t, buf.String())

	if !slices.Contains(msgs, "rendered template") {
		t.Errorf("debug record missing: %v", msgs)
	}

	if slices.Contains(msgs, "cache lookup") || slices.Contains(msgs, "evaluate program") {
		t.Errorf("trace records written at debug level: %v", msgs)
	}
}
