// Package repl implements an interactive evaluator for template code.
//
// Each line entered in eval mode is run as a code block against one
// persistent engine context, so assignments survive between lines. Output
// written by echo and print is shown first, followed by the value of the
// last statement. Esc switches to command mode (help, vars, render, reset,
// clear, quit).
package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/macro/engine"
	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/macro"
	"github.com/ardnew/macro/value"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"

	defaultWidth = 80
	previewWidth = 60
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this help
  vars          List variables of the session
  render PATH   Render a template against the session model
  reset         Discard assignments and rebind the model
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type statements to run them: echo model.title; x = 2; x * 3
  Completions appear as you type; Tab / Shift-Tab cycle candidates
  Up/Down navigate history, switching mode as needed
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// inputMode is the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	outputStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Options configures a REPL session.
type Options struct {
	Renderer    *macro.Renderer
	Model       any
	BindingName string
	Environ     []string
	HistoryPath string
	Logger      log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	opts         Options
	input        textinput.Model
	expr         *engine.Expr
	ec           *engine.Context
	out          *bytes.Buffer
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, opts Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(opts.HistoryPath)
	if err := history.Load(); err != nil {
		opts.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", opts.HistoryPath),
			slog.Any("error", err),
		)
	}

	m := newModel(ctx, opts, history)

	opts.Logger.TraceContext(ctx, "repl start",
		slog.Int("history_count", history.Len()),
		slog.Int("variable_count", len(m.ec.Names())),
	)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

func newModel(ctx context.Context, opts Options, history *History) model {
	if opts.BindingName == "" {
		opts.BindingName = macro.DefaultBindingName
	}

	if opts.Renderer == nil {
		opts.Renderer = macro.New(macro.WithLogger(opts.Logger))
	}

	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		opts:       opts,
		input:      ti,
		expr:       engine.NewExpr(engine.WithLogger(opts.Logger)),
		out:        new(bytes.Buffer),
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}

	m.reset()

	return m
}

// reset replaces the session context with a fresh one holding only the
// model binding.
func (m *model) reset() {
	ctxOpts := []engine.ContextOption{engine.WithContextLogger(m.opts.Logger)}
	if m.opts.Environ != nil {
		ctxOpts = append(ctxOpts, engine.WithEnviron(m.opts.Environ))
	}

	m.ec = engine.NewContext(m.out, ctxOpts...)
	m.ec.Bind(m.opts.BindingName, value.Marshal(m.opts.Model))
}

// evaluate runs one code block and returns what it printed followed by the
// dump of its value.
func (m model) evaluate(code string) (string, error) {
	m.out.Reset()

	x, err := m.expr.Eval(m.ctxFunc(), m.ec, code)

	var b strings.Builder

	b.WriteString(m.out.String())

	if err == nil && x != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}

		b.WriteString(value.Marshal(x).String())
	}

	return b.String(), err
}

// variables lists the session variables with a preview of each value.
func (m model) variables() string {
	var b strings.Builder

	for _, name := range m.ec.Names() {
		x, _ := m.ec.Lookup(name)

		preview := value.Marshal(x).String()
		if len(preview) > previewWidth {
			preview = preview[:previewWidth-3] + "..."
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview))
	}

	return b.String()
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type statements or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.opts.Logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the candidate without executing.
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyMove(-1)

	case tea.KeyDown:
		return m.historyMove(1)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, completing the current word with
// the selected candidate. A sole candidate is completed immediately.
func (m model) cycle(step int) (model, tea.Cmd) {
	n := len(m.matches)
	if n == 0 {
		return m, nil
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the word under completion with replacement.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the matches for the current input. With
// autoConfirm, a word that already equals its sole candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.opts.Logger.DebugContext(m.ctxFunc(), "history write failed",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	out, err := m.evaluate(input)

	m.opts.Logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input),
		slog.Int("output_bytes", len(out)),
		slog.Bool("failed", err != nil),
	)

	cmds := []tea.Cmd{echo}

	if out != "" {
		style := outputStyle
		if err == nil && m.out.Len() == 0 {
			style = resultStyle
		}

		cmds = append(cmds, tea.Println(style.Render(out)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.opts.Logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.variables()))

	case "r", "render":
		if arg == "" {
			return m, tea.Sequence(echo,
				tea.Println(errorStyle.Render(ErrUsage.Error()+": render PATH")))
		}

		out, err := m.opts.Renderer.Execute(m.ctxFunc(), macro.Source{Path: arg}, m.opts.Model)
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(outputStyle.Render(out)))

	case "reset":
		m.reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("context reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + name + " (try 'help')"),
		)
	}
}

// historyMove steps through history by delta, switching to the mode each
// entry was entered in. Moving past the newest entry clears the input.
func (m model) historyMove(delta int) (model, tea.Cmd) {
	idx := m.historyIdx + delta
	if idx < 0 {
		return m, nil
	}

	if idx >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)

		return m, nil
	}

	entry, err := m.history.Entry(idx)
	if err != nil {
		return m, nil
	}

	m.historyIdx = idx

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m, nil
}

// switchToMode switches to mode, keeping the pending input of each mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
