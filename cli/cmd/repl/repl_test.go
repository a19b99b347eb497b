package repl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lom/grammar"
	"github.com/ardnew/lom/log"
)

const kv = `
start: pair
rules:
  number:
    map:
      inner:
        one_or_more:
          pred:
            inner: any_char
            fn: v >= "0" && v <= "9"
      fn: int(text(v))
  pair:
    seq:
      - identifier
      - literal: "="
      - ref: number
`

func loader(src string) Loader {
	return func(ctx context.Context) (*grammar.Grammar, error) {
		return grammar.Load(ctx, strings.NewReader(src))
	}
}

func testModel(t *testing.T) model {
	t.Helper()

	g, err := loader(kv)(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	t.Cleanup(func() { g.Close() })

	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), g, loader(kv), g.Start(), h, log.Logger{})
}

func typeText(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	return m.handleKey(tea.KeyMsg{Type: k})
}

func TestEvaluate(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		input string
		want  []string
	}{
		{"a=12", []string{"✔ [a = 12]"}},
		{"a=12;", []string{"✔ [a = 12]", `rest ";"`}},
		{"=1", []string{"✘ no match", `rest "=1"`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := m.evaluate(tt.input)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("evaluate(%q) = %q, want it to contain %q", tt.input, got, w)
				}
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		line     string
		wantRule string
		wantOut  string
		quit     bool
	}{
		{line: "rule number", wantRule: "number", wantOut: "✔ rule number"},
		{line: "r number", wantRule: "number", wantOut: "one_or_more"},
		{line: "rule", wantRule: "pair", wantOut: "pair"},
		{line: "rule numbr", wantRule: "pair", wantOut: "did you mean number"},
		{line: "list", wantRule: "pair", wantOut: "* pair"},
		{line: "help", wantRule: "pair", wantOut: "Commands"},
		{line: "bogus", wantRule: "pair", wantOut: "unknown command: bogus"},
		{line: "q", wantRule: "pair", quit: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m, out, cmd := testModel(t).runCommand(tt.line)

			if m.rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", m.rule, tt.wantRule)
			}

			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want it to contain %q", out, tt.wantOut)
			}

			if m.quitting != tt.quit || (cmd != nil) != tt.quit {
				t.Errorf("quitting = %v (cmd %v), want %v", m.quitting, cmd != nil, tt.quit)
			}
		})
	}
}

func TestSelectRuleUpdatesPrompt(t *testing.T) {
	m, _, _ := testModel(t).runCommand("rule number")

	if !strings.Contains(m.input.Prompt, "number") {
		t.Errorf("prompt = %q, want the rule name", m.input.Prompt)
	}
}

func TestExecuteInput(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "a=1")
	m, cmd := press(m, tea.KeyEnter)

	if cmd == nil {
		t.Fatal("Enter on a parse input returned no command")
	}

	m = typeText(m, ":rule number")
	m, _ = press(m, tea.KeyEnter)

	if m.rule != "number" {
		t.Errorf("rule = %q after :rule number", m.rule)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after Enter", m.input.Value())
	}

	want := []HistoryEntry{
		{Line: "a=1", Mode: modeParse},
		{Line: "rule number", Mode: modeCtrl},
	}

	got := m.history.Entries()
	if len(got) != len(want) {
		t.Fatalf("history = %+v, want %+v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTabCompletesRule(t *testing.T) {
	m := testModel(t).switchToMode(modeCtrl)

	m = typeText(m, "rule nu")
	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "rule number" {
		t.Errorf("input after Tab = %q, want %q", got, "rule number")
	}

	m, _ = press(m, tea.KeyEnter)

	if m.rule != "number" {
		t.Errorf("rule = %q after completing and submitting", m.rule)
	}
}

func TestTabCycleAndCancel(t *testing.T) {
	m := testModel(t).switchToMode(modeCtrl)

	m = typeText(m, "rule ")
	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "rule number" {
		t.Fatalf("first Tab = %q", got)
	}

	m, _ = press(m, tea.KeyTab)

	if got := m.input.Value(); got != "rule pair" {
		t.Fatalf("second Tab = %q", got)
	}

	m, _ = press(m, tea.KeyShiftTab)

	if got := m.input.Value(); got != "rule number" {
		t.Fatalf("Shift-Tab = %q", got)
	}

	m, _ = press(m, tea.KeyEsc)

	if got := m.input.Value(); got != "rule " || m.comp.cycling {
		t.Errorf("Esc = %q (cycling %v), want the text before cycling", got, m.comp.cycling)
	}
}

func TestModeToggleKeepsInput(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "abc")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode %v input %q", m.mode, m.input.Value())
	}

	m = typeText(m, "li")
	m, _ = press(m, tea.KeyEsc)

	if m.mode != modeParse || m.input.Value() != "abc" {
		t.Errorf("after second Esc: mode %v input %q", m.mode, m.input.Value())
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{
		{"a=1", modeParse},
		{"list", modeCtrl},
		{"b=2", modeParse},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "b=2" || m.mode != modeParse {
		t.Fatalf("Up 1: %q mode %v", m.input.Value(), m.mode)
	}

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Fatalf("Up 2: %q mode %v", m.input.Value(), m.mode)
	}

	m, _ = press(m, tea.KeyShiftUp)
	if m.input.Value() != "list" {
		t.Fatalf("Shift-Up past the only command: %q", m.input.Value())
	}

	m = m.switchToMode(modeParse)
	m, _ = press(m, tea.KeyShiftUp)

	if m.input.Value() != "a=1" {
		t.Fatalf("Shift-Up in parse mode: %q", m.input.Value())
	}

	for range 3 {
		m, _ = press(m, tea.KeyDown)
	}

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("Down past newest: %q idx %d", m.input.Value(), m.historyIdx)
	}
}

func TestReload(t *testing.T) {
	m := testModel(t)
	m, _, _ = m.runCommand("rule number")

	g, err := loader("start: word\nrules:\n  word: identifier\n")(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	old := m.g

	m, cmd := m.reload(g)
	t.Cleanup(func() { m.g.Close() })

	if cmd == nil || m.g != g {
		t.Fatal("reload did not install the new grammar")
	}

	if m.rule != "word" {
		t.Errorf("rule = %q, want the new start rule", m.rule)
	}

	if _, ok := old.Rule("number"); ok {
		t.Error("previous grammar still open")
	}
}

func TestRunRejectsUnknownRule(t *testing.T) {
	err := Run(t.Context(), loader(kv), "nubmer", t.TempDir(), log.Logger{})
	if !errors.Is(err, grammar.ErrUnknownRule) {
		t.Errorf("Run() error = %v, want ErrUnknownRule", err)
	}

	if err := Run(t.Context(), nil, "", t.TempDir(), log.Logger{}); !errors.Is(err, ErrNoGrammar) {
		t.Errorf("Run(nil loader) error = %v, want ErrNoGrammar", err)
	}
}

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"  a=1", modeParse},
		{"list", modeCtrl},
		{"b=2", modeParse},
		{"  a=1", modeParse},
		{"   ", modeParse},
		{"x\ny", modeParse},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"b=2", modeParse},
		{"  a=1", modeParse},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "C:list\nP:b=2\nP:  a=1\n" {
		t.Errorf("file = %q", data)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	for i, e := range loaded.Entries() {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}

	if loaded.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", loaded.Len(), len(want))
	}

	if _, err := loaded.Entry(len(want)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(out of range) error = %v", err)
	}
}

func TestHelpListsCommandsAndKeys(t *testing.T) {
	help := helpMessage()

	for _, c := range commands {
		if !strings.Contains(help, "  "+c.name) {
			t.Errorf("help does not list %q", c.name)
		}

		for _, a := range c.aliases {
			if got := expandCommand(a); got != c.name {
				t.Errorf("expandCommand(%q) = %q, want %q", a, got, c.name)
			}
		}
	}

	for _, k := range []string{"enter", "tab/shift+tab", "esc", "up/down", "shift+up/down", "ctrl+c/ctrl+d"} {
		if !strings.Contains(help, k) {
			t.Errorf("help does not describe key %q", k)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	m := testModel(t)

	m = typeText(m, "a=")
	m, cmd := press(m, tea.KeyCtrlD)

	if m.quitting || cmd != nil || m.input.Value() != "a=" {
		t.Fatalf("Ctrl+D on a line: quitting %v input %q", m.quitting, m.input.Value())
	}

	m, _ = press(m, tea.KeyCtrlC)

	if m.quitting || m.input.Value() != "" {
		t.Fatalf("Ctrl+C on a line: quitting %v input %q", m.quitting, m.input.Value())
	}

	m, cmd = press(m, tea.KeyCtrlC)

	if !m.quitting || cmd == nil || m.View() != "" {
		t.Errorf("Ctrl+C on an empty line did not quit")
	}
}

func TestStatusLine(t *testing.T) {
	m := testModel(t)

	if got := m.status(); !strings.Contains(got, "pair") {
		t.Errorf("parse hint = %q, want the current rule", got)
	}

	m = m.switchToMode(modeCtrl)
	m = typeText(m, "rule ")

	if got := m.status(); !strings.Contains(got, "number") {
		t.Errorf("candidate bar = %q, want the rule names", got)
	}

	if err := m.history.Add("a=1", modeParse); err != nil {
		t.Fatal(err)
	}

	m.historyIdx = m.history.Len()
	m, _ = press(m, tea.KeyUp)

	if got := m.status(); !strings.Contains(got, "1/1") {
		t.Errorf("history status = %q", got)
	}
}
