package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lom/grammar"
	"github.com/ardnew/lom/host"
	"github.com/ardnew/lom/log"
)

// Loader loads the grammar under test. It is called again after the
// grammar file is edited.
type Loader func(context.Context) (*grammar.Grammar, error)

// reloadMsg carries a grammar reloaded after an edit.
type reloadMsg struct{ g *grammar.Grammar }

// editDeclinedMsg is sent when the user gave up on a grammar that does not
// load.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	parsePrompt  = "➜ "
	ctrlPrompt   = " :"
	defaultWidth = 80
	previewWidth = 56
)

// inputMode is the interpretation of a submitted line.
type inputMode int

const (
	modeParse inputMode = iota
	modeCtrl
)

//nolint:gochecknoglobals
var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// command is a command-mode command.
type command struct {
	name    string
	args    string
	doc     string
	aliases []string
}

//nolint:gochecknoglobals
var commands = []command{
	{name: "help", doc: "show this help", aliases: []string{"h", "?"}},
	{name: "list", doc: "list the rules, * marks the current one", aliases: []string{"l", "ls"}},
	{name: ruleCommand, args: "[name]", doc: "show or select the rule inputs are parsed with", aliases: []string{"r"}},
	{name: "edit", doc: "edit the grammar in $EDITOR and reload it", aliases: []string{"e"}},
	{name: "clear", doc: "clear the screen", aliases: []string{"c"}},
	{name: "quit", doc: "exit", aliases: []string{"q", "exit"}},
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// expandCommand resolves an alias to its command name.
func expandCommand(s string) string {
	for _, c := range commands {
		if slices.Contains(c.aliases, s) {
			return c.name
		}
	}

	return s
}

// keyMap binds the keys handled outside the text input.
type keyMap struct {
	Submit    key.Binding
	Next      key.Binding
	Prev      key.Binding
	Toggle    key.Binding
	Older     key.Binding
	Newer     key.Binding
	OlderMode key.Binding
	NewerMode key.Binding
	Quit      key.Binding
}

//nolint:gochecknoglobals
var keys = keyMap{
	Submit: key.NewBinding(key.WithKeys("enter"),
		key.WithHelp("enter", "parse the input with the current rule, or run the command")),
	Next: key.NewBinding(key.WithKeys("tab"),
		key.WithHelp("tab/shift+tab", "cycle through command and rule name completions")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab")),
	Toggle: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "switch between parse and command mode")),
	Older: key.NewBinding(key.WithKeys("up"),
		key.WithHelp("up/down", "browse history, switching mode to match the entry")),
	Newer: key.NewBinding(key.WithKeys("down")),
	OlderMode: key.NewBinding(key.WithKeys("shift+up"),
		key.WithHelp("shift+up/down", "browse history of the current mode only")),
	NewerMode: key.NewBinding(key.WithKeys("shift+down")),
	Quit: key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"),
		key.WithHelp("ctrl+c/ctrl+d", "exit on an empty line; ctrl+c clears a line")),
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{
		k.Submit, k.Next, k.Prev, k.Toggle, k.Older, k.Newer, k.OlderMode, k.NewerMode, k.Quit,
	}
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("Commands (Esc for command mode, or prefix with ':' in parse mode):\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-12s %s\n", strings.TrimSpace(c.name+" "+c.args), c.doc)
	}

	b.WriteString("\nKeys:\n")

	for _, k := range keys.bindings() {
		if h := k.Help(); h.Key != "" {
			fmt.Fprintf(&b, "  %-14s %s\n", h.Key, h.Desc)
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// draft is a line being edited and its cursor.
type draft struct {
	text   string
	cursor int
}

// completion is the state of the candidate bar for the word at the cursor.
type completion struct {
	matches fuzzy.Matches
	start   int // byte bounds of the word in the input
	end     int
	idx     int // selected candidate while cycling, or -1
	cycling bool
	saved   draft // input before cycling began
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	g          *grammar.Grammar
	load       Loader
	rule       string
	logger     log.Logger
	history    *History
	historyIdx int
	comp       completion
	pending    [2]draft // unsubmitted input of each mode
	width      int
	quitting   bool
	mode       inputMode
}

// Run loads a grammar with load and parses each submitted line with rule,
// or the grammar's start rule, until the user quits. History is kept in
// cacheDir. The grammar is closed on return.
func Run(
	ctx context.Context,
	load Loader,
	rule string,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if load == nil {
		return ErrNoGrammar
	}

	g, err := load(ctx)
	if err != nil {
		return err
	}

	if rule == "" {
		rule = g.Start()
	} else if _, ok := g.Rule(rule); !ok {
		closeGrammar(ctx, g, logger)

		return grammar.ErrUnknownRule.With(
			slog.String("rule", rule),
			slog.Any("did_you_mean", g.Suggest(rule)),
		)
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("grammar", g.Name()),
		slog.String("rule", rule),
		slog.String("cache_dir", cacheDir),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	final, err := tea.NewProgram(
		newModel(ctx, g, load, rule, history, logger),
		tea.WithContext(ctx),
	).Run()

	// An edit may have replaced g; the old grammar was closed then.
	if fm, ok := final.(model); ok && fm.g != nil {
		g = fm.g
	}

	closeGrammar(ctx, g, logger)

	return err
}

func closeGrammar(ctx context.Context, g *grammar.Grammar, logger log.Logger) {
	if err := g.Close(); err != nil {
		logger.WarnContext(ctx, "grammar close", slog.Any("error", err))
	}
}

func newModel(
	ctx context.Context,
	g *grammar.Grammar,
	load Loader,
	rule string,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		g:          g,
		load:       load,
		rule:       rule,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		comp:       completion{idx: -1},
		width:      defaultWidth,
		mode:       modeParse,
	}

	m.input.Prompt = m.prompt()

	return m
}

// prompt shows the current rule in parse mode.
func (m model) prompt() string {
	if m.mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(m.rule + " " + parsePrompt)
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
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-2, 1)

		return m, nil

	case reloadMsg:
		return m.reload(msg.g)

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit declined; keeping the loaded grammar"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.status() + "\n"
}

// status is the line under the input: the history position while browsing,
// the candidate bar while completing, or a hint on an empty line.
func (m model) status() string {
	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("history %d/%d", m.historyIdx+1, m.history.Len()))
	case len(m.comp.matches) > 0:
		return renderCandidateBar(m.comp.matches, m.comp.idx, m.comp.cycling, m.width)
	case m.input.Value() != "":
		return ""
	case m.mode == modeCtrl:
		return hintStyle.Render("commands: " + strings.Join(ctrlCommands, ", ") + " (esc to parse)")
	default:
		return hintStyle.Render("inputs are parsed with " + m.rule + " (esc for commands)")
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch {
	case key.Matches(msg, keys.Quit):
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		if msg.Type == tea.KeyCtrlC {
			m = m.setInput(draft{})
		}

		return m, nil

	case key.Matches(msg, keys.Submit):
		if !m.comp.cycling || len(m.comp.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current candidate without executing.
		m.comp.cycling = false
		m.refresh(true)

		return m, nil

	case key.Matches(msg, keys.Next):
		return m.cycle(1), nil
	case key.Matches(msg, keys.Prev):
		return m.cycle(-1), nil
	case key.Matches(msg, keys.Older):
		return m.historyStep(-1, false), nil
	case key.Matches(msg, keys.Newer):
		return m.historyStep(1, false), nil
	case key.Matches(msg, keys.OlderMode):
		return m.historyStep(-1, true), nil
	case key.Matches(msg, keys.NewerMode):
		return m.historyStep(1, true), nil

	case key.Matches(msg, keys.Toggle):
		if m.comp.cycling {
			return m.setInput(m.comp.saved), nil
		}

		if m.mode == modeParse {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeParse), nil
	}

	// Any edit ends a cycle. Only typed text may confirm a sole candidate.
	var cmd tea.Cmd

	m.comp.cycling = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace)

	return m, cmd
}

// setInput replaces the input line, ends any cycle and leaves history.
func (m model) setInput(d draft) model {
	m.input.SetValue(d.text)
	m.input.SetCursor(d.cursor)
	m.comp.cycling = false
	m.historyIdx = m.history.Len()
	m.refresh(false)

	return m
}

// cycle moves the selection by step, starting a cycle if none is active. A
// sole candidate is accepted at once.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.complete(m.comp.matches[0].Str)
		m.comp = completion{idx: -1}

		return m

	case m.comp.cycling:
		m.comp.idx = (m.comp.idx + step + n) % n

	default:
		m.comp.cycling = true
		m.comp.saved = draft{m.input.Value(), m.input.Position()}

		m.comp.idx = 0
		if step < 0 {
			m.comp.idx = n - 1
		}
	}

	m.complete(m.comp.matches[m.comp.idx].Str)

	return m
}

// complete replaces the word being completed with s and moves the cursor
// after it.
func (m *model) complete(s string) {
	input := m.input.Value()
	cursor := m.comp.start + len(s)

	m.input.SetValue(input[:m.comp.start] + s + input[m.comp.end:])
	m.input.SetCursor(cursor)

	m.comp.end = cursor
}

// refresh ranks completions for the input. With confirm, a sole candidate
// equal to the typed word is accepted and the bar is cleared.
func (m *model) refresh(confirm bool) {
	m.comp.matches, m.comp.start, m.comp.end = m.computeMatches()

	if !m.comp.cycling {
		m.comp.idx = -1
	}

	if confirm && len(m.comp.matches) == 1 &&
		m.input.Value()[m.comp.start:m.comp.end] == m.comp.matches[0].Str {
		m.comp = completion{idx: -1}
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	if strings.TrimSpace(raw) == "" {
		return m, nil
	}

	m.pending = [2]draft{}
	m.input.SetValue("")
	m.comp = completion{idx: -1}

	if line, _, ok := m.commandLine(raw); ok {
		line = strings.TrimSpace(line)
		m.addHistory(line, modeCtrl)

		return m.executeCommand(line)
	}

	m.addHistory(raw, modeParse)

	echo := tea.Println(promptStyle.Render(m.rule+" "+parsePrompt) + inputStyle.Render(raw))

	return m, tea.Sequence(echo, tea.Println(m.evaluate(raw)))
}

func (m *model) addHistory(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
}

// evaluate parses input with the current rule and renders the outcome.
func (m model) evaluate(input string) string {
	if m.g == nil {
		return errorStyle.Render("error: " + ErrNoGrammar.Error())
	}

	res, err := m.g.Parse(m.rule, input)
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	m.logger.TraceContext(m.ctxFunc(), "repl parse",
		slog.String("rule", m.rule),
		slog.Bool("ok", res.OK),
		slog.Int("rest", len(res.Rest)),
	)

	return renderMatch(res)
}

func renderMatch(res grammar.Match) string {
	var rest string
	if res.Rest != "" {
		rest = hintStyle.Render("  rest " + strconv.Quote(res.Rest))
	}

	if !res.OK {
		return errorStyle.Render("✘ no match") + rest
	}

	return resultStyle.Render("✔ "+host.Str(res.Value)) + rest
}

func (m model) executeCommand(line string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line))

	m, out, cmd := m.runCommand(line)

	cmds := []tea.Cmd{echo}
	if out != "" {
		cmds = append(cmds, tea.Println(out))
	}

	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Sequence(cmds...)
}

// runCommand executes a command line and returns the text to print and any
// further command for the program.
func (m model) runCommand(line string) (model, string, tea.Cmd) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return m, "", nil
	}

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", fields[0]),
		slog.Any("args", fields[1:]),
	)

	switch expandCommand(fields[0]) {
	case "quit":
		m.quitting = true

		return m, "", tea.Quit

	case "help":
		return m, helpMessage(), nil

	case "list":
		return m, m.listRules(), nil

	case "clear":
		return m, "", tea.ClearScreen

	case ruleCommand:
		return m.selectRule(fields[1:])

	case "edit":
		return m.edit()

	default:
		return m, errorStyle.Render("unknown command: " + fields[0] + " (try 'help')"), nil
	}
}

func (m model) selectRule(args []string) (model, string, tea.Cmd) {
	if m.g == nil {
		return m, errorStyle.Render("error: " + ErrNoGrammar.Error()), nil
	}

	if len(args) == 0 {
		return m, m.describeRule(m.rule), nil
	}

	name := args[0]
	if _, ok := m.g.Rule(name); !ok {
		out := errorStyle.Render("unknown rule: " + name)
		if sugg := m.g.Suggest(name); len(sugg) > 0 {
			out += hintStyle.Render(" (did you mean " + strings.Join(sugg, ", ") + "?)")
		}

		return m, out, nil
	}

	m.rule = name
	m.input.Prompt = m.prompt()

	return m, resultStyle.Render("✔ rule ") + m.describeRule(name), nil
}

func (m model) describeRule(name string) string {
	e, ok := m.g.Expr(name)
	if !ok {
		return name
	}

	return name + " " + hintStyle.Render(preview(e.String(), previewWidth))
}

func (m model) listRules() string {
	if m.g == nil {
		return errorStyle.Render("error: " + ErrNoGrammar.Error())
	}

	rules := m.g.Rules()
	pad := 0

	for _, name := range rules {
		pad = max(pad, len(name))
	}

	var b strings.Builder

	for _, name := range rules {
		mark := " "
		if name == m.rule {
			mark = "*"
		}

		e, _ := m.g.Expr(name)
		fmt.Fprintf(&b, "%s %-*s  %s\n", mark, pad, name,
			hintStyle.Render(preview(e.String(), previewWidth)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) edit() (model, string, tea.Cmd) {
	if m.g == nil || m.load == nil {
		return m, errorStyle.Render("error: " + ErrNoGrammar.Error()), nil
	}

	cmd := &editGrammarCommand{
		path:    m.g.Name(),
		load:    m.load,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return m, "", tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		default:
			return reloadMsg{g: cmd.loaded}
		}
	})
}

// reload replaces the grammar with g and closes the previous one. The
// current rule is kept if g still defines it.
func (m model) reload(g *grammar.Grammar) (model, tea.Cmd) {
	if g == nil {
		return m, nil
	}

	old := m.g
	m.g = g

	if _, ok := g.Rule(m.rule); !ok {
		m.rule = g.Start()
	}

	m.input.Prompt = m.prompt()

	if old != nil {
		closeGrammar(m.ctxFunc(), old, m.logger)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl reload",
		slog.String("grammar", g.Name()),
		slog.Int("rules", len(g.Rules())),
	)

	return m, tea.Println(resultStyle.Render(
		fmt.Sprintf("✔ grammar reloaded (%d rules)", len(g.Rules()))))
}

// historyStep moves through history by step. Entries of the other mode
// switch the mode, unless inMode restricts navigation to the current one.
func (m model) historyStep(step int, inMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if entry.Mode != m.mode {
			if inMode {
				continue
			}

			m = m.switchToMode(entry.Mode)
		}

		m.input.SetValue(entry.Line)
		m.input.CursorEnd()
		m.comp.cycling = false
		m.refresh(false)
		m.historyIdx = i

		return m
	}

	// Stepping past the newest entry returns to an empty line.
	if step > 0 && m.historyIdx < m.history.Len() {
		m = m.setInput(draft{})
	}

	return m
}

// switchToMode changes mode. Each mode keeps its own unsubmitted input.
func (m model) switchToMode(mode inputMode) model {
	m.pending[m.mode] = draft{m.input.Value(), m.input.Position()}
	m.mode = mode
	m.input.Prompt = m.prompt()

	historyIdx := m.historyIdx
	m = m.setInput(m.pending[mode])
	m.historyIdx = historyIdx

	return m
}
