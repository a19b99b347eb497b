package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the command-mode commands, in help order.
var ctrlCommands = commandNames()

// ruleCommand takes a rule name as its argument.
const ruleCommand = "rule"

// cmdPrefix introduces a command typed in parse mode.
const cmdPrefix = ":"

// wordBounds returns the whitespace-delimited word at cursor and its byte
// boundaries within input. The word is empty when cursor sits between two
// spaces or at the end after a space.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if unicode.IsSpace(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// commandLine returns the command text of input, without the ":" that
// introduces a command in parse mode, and the byte offset it starts at.
// ok is false when input is not a command.
func (m model) commandLine(input string) (line string, offset int, ok bool) {
	if m.mode == modeCtrl {
		return input, 0, true
	}

	if s, found := strings.CutPrefix(input, cmdPrefix); found {
		return s, len(cmdPrefix), true
	}

	return "", 0, false
}

// candidatesAt returns the completion candidates for the word starting at
// byte wordStart of a command line: command names for the first word, and
// rule names for the argument of "rule".
func (m model) candidatesAt(line string, wordStart int) []string {
	fields := strings.Fields(line[:wordStart])

	switch {
	case len(fields) == 0:
		return ctrlCommands
	case len(fields) == 1 && expandCommand(fields[0]) == ruleCommand && m.g != nil:
		return m.g.Rules()
	default:
		return nil
	}
}

// computeMatches ranks the candidates for the word at the cursor. Parse
// input is free text and never completes.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	cursor := m.input.Position()

	line, offset, ok := m.commandLine(input)
	if !ok || cursor < offset {
		return nil, cursor, cursor
	}

	word, ws, we := wordBounds(line, cursor-offset)
	wordStart, wordEnd = ws+offset, we+offset

	candidates := m.candidatesAt(line, ws)
	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	// Offer every rule name for an empty argument; an empty command word
	// shows the hint line instead.
	if word == "" {
		if slices.Equal(candidates, ctrlCommands) {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit width. The selected candidate is highlighted while tab-cycling.
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

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders match with its matched characters emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, emph := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, emph = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(emph.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// preview shortens the one-line form of a rule to n runes.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	r := []rune(s)

	return string(r[:n-3]) + "..."
}
