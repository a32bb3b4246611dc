package repl

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/macro/engine"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "render", "reset", "clear", "quit"}

// keywords are the statement keywords of a code block.
var keywords = []string{"echo", "print"}

// exprBuiltins lists the expr-lang builtin function names.
var exprBuiltins = sync.OnceValue(func() []string {
	names := make([]string, 0, len(builtin.Builtins))

	for _, fn := range builtin.Builtins {
		names = append(names, fn.Name)
	}

	return names
})

// isWordBoundary reports whether r delimits a completion word: whitespace,
// member access, the variable sigil, string quotes and operators.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '$', '"', '\'',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte boundaries in input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain before the word starting at
// wordStart. For "x + model.page.ti" and the word "ti" it is "model.page".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(prefix[pos:], ".")
}

// candidates returns the completions available below parent. At the top
// level these are the context variables, engine built-ins, expr-lang
// builtins and statement keywords. Below a variable they are the keys of
// the mapping it holds; below a built-in namespace they are its members.
func candidates(ec *engine.Context, parent string) []string {
	if parent == "" {
		names := slices.Concat(ec.Names(), engine.BuiltinNames(), exprBuiltins(), keywords)
		slices.Sort(names)

		return slices.Compact(names)
	}

	segments := strings.Split(parent, ".")

	if x, ok := ec.Lookup(segments[0]); ok {
		for _, seg := range segments[1:] {
			m, ok := x.(map[string]any)
			if !ok {
				return nil
			}

			x = m[seg]
		}

		if m, ok := x.(map[string]any); ok {
			return slices.Sorted(maps.Keys(m))
		}

		return nil
	}

	return engine.BuiltinMembers(parent)
}

// isFunction reports whether name is a callable top-level completion.
func isFunction(name string) bool {
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	switch name {
	case "cwd", "env", "html", "htmlspecialchars":
		return true
	}

	return false
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// top-level word yields no matches so the hint stays visible; an empty word
// after a dot lists every member.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var cands []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, wordStart, wordEnd
		}

		cands = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		cands = candidates(m.ec, parent)

		if word == "" {
			if parent == "" {
				return nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(cands))
			for i, c := range cands {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}
	}

	if len(cands) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, cands), wordStart, wordEnd
}

// renderCandidateBar renders the completion bar on one line, ellipsized to
// width. Matched characters are highlighted and the tab selection is
// inverted.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		w := lipgloss.Width(rendered)

		if i > 0 {
			if used+lipgloss.Width(sep)+w+reserve > width {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)
			used += lipgloss.Width(sep)
		}

		b.WriteString(rendered)
		used += w
	}

	return b.String()
}

func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
