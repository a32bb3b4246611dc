package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/macro/macro"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	dir := t.TempDir()

	return newModel(t.Context(), Options{
		Renderer:    macro.New(macro.WithRoot(dir), macro.WithTempDir(dir)),
		Model:       yaml.MapSlice{{Key: "title", Value: "Home"}},
		Environ:     []string{"USER=tester"},
		HistoryPath: filepath.Join(dir, BaseHistory),
	}, NewHistory(filepath.Join(dir, BaseHistory)))
}

func TestModel_Evaluate(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		code string
		want string
	}{
		{"x = 2; x * 3", "int(6)"},
		{"x + 1", "int(3)"},
		{"echo model.title", "Home"},
		{`echo "a"; "b"`, "a\nstring(\"b\")"},
		{`env("USER")`, `string("tester")`},
		{"missing", ""},
	}

	for _, tt := range tests {
		got, err := m.evaluate(tt.code)
		if err != nil {
			t.Fatalf("evaluate(%q) error = %v", tt.code, err)
		}

		if got != tt.want {
			t.Errorf("evaluate(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}

	if _, err := m.evaluate("1 +"); err == nil {
		t.Error("evaluate(invalid) expected error")
	}
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.evaluate("kept = 1"); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(m.variables(), "kept") {
		t.Errorf("variables() = %q, want kept", m.variables())
	}

	m, _ = m.executeCommand("reset")

	if _, ok := m.ec.Lookup("kept"); ok {
		t.Error("reset kept an assignment")
	}

	if _, ok := m.ec.Lookup("model"); !ok {
		t.Error("reset dropped the model binding")
	}
}

func TestModel_ExecuteInputRecordsHistory(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("  y = 5  ")
	m, _ = m.executeInput()

	if m.input.Value() != "" {
		t.Errorf("input = %q after execute, want empty", m.input.Value())
	}

	if y, ok := m.ec.Lookup("y"); !ok || y != 5 {
		t.Errorf("Lookup(y) = %v, %v", y, ok)
	}

	entry, err := m.history.Entry(0)
	if err != nil || entry != (Entry{"y = 5", modeEval}) {
		t.Errorf("history entry = %+v, %v", entry, err)
	}

	if m.historyIdx != m.history.Len() {
		t.Errorf("historyIdx = %d, want %d", m.historyIdx, m.history.Len())
	}
}

func TestModel_HistoryMoveSwitchesMode(t *testing.T) {
	m := newTestModel(t)

	_ = m.history.Add("x = 1", modeEval)
	_ = m.history.Add("vars", modeCtrl)
	m.historyIdx = m.history.Len()

	m, _ = m.historyMove(-1)
	if m.mode != modeCtrl || m.input.Value() != "vars" {
		t.Errorf("after up: mode %v input %q", m.mode, m.input.Value())
	}

	m, _ = m.historyMove(-1)
	if m.mode != modeEval || m.input.Value() != "x = 1" {
		t.Errorf("after second up: mode %v input %q", m.mode, m.input.Value())
	}

	m, _ = m.historyMove(1)
	m, _ = m.historyMove(1)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("past newest: input %q idx %d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_TabCycle(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("model.")
	m.input.SetCursor(len("model."))
	refreshMatches(&m, false)

	if len(m.matches) != 1 || m.matches[0].Str != "title" {
		t.Fatalf("matches = %v", m.matches)
	}

	m, _ = m.cycle(1)

	if m.input.Value() != "model.title" {
		t.Errorf("input = %q, want completed member", m.input.Value())
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlD})
	if !m.quitting || cmd == nil {
		t.Error("Ctrl+D on empty input should quit")
	}

	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModel_RenderCommand(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.php")

	if err := os.WriteFile(page, []byte("<h1><?= model.title ?></h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t)

	out, err := m.opts.Renderer.Execute(t.Context(), macro.Source{Path: page}, m.opts.Model)
	if err != nil || out != "<h1>Home</h1>" {
		t.Errorf("render = %q, %v", out, err)
	}

	if _, cmd := m.executeCommand("render"); cmd == nil {
		t.Error("render without a path should print usage")
	}
}
