// Package repl is an interactive playground for function definitions.
//
// Definitions typed at the prompt are kept for the rest of the session, and
// any other input is shown expanded with every function defined so far.
// Lines starting with a colon are commands; ":help" lists them.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/moco/log"
)

// Messages reporting how an :edit ended.
type (
	editDoneMsg      struct{}
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

const (
	prompt       = "molang> "
	defaultWidth = 80
	maxInput     = 4096
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config holds the settings of a REPL session.
type Config struct {
	// Library, if not nil, is read for function definitions available from
	// the start.
	Library io.Reader

	Logger log.Logger

	// HistoryFile is where input lines are persisted. History is kept in
	// memory only if it is empty.
	HistoryFile string

	// MaxPasses bounds each expansion.
	MaxPasses int
}

// Run starts the REPL and blocks until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := cfg.Logger
	s := newSession(logger, cfg.MaxPasses)

	if cfg.Library != nil {
		data, err := io.ReadAll(cfg.Library)
		if err != nil {
			return err
		}

		logger.DebugContext(ctx, "repl library loaded",
			slog.Int("functions", s.load(ctx, string(data))))
	}

	history := NewHistory(cfg.HistoryFile)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "history not loaded",
			slog.String("path", cfg.HistoryFile),
			slog.String("error", err.Error()))
	}

	_, err = tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// completion is the state of the candidate bar below the input.
type completion struct {
	matches fuzzy.Matches
	// start and end delimit the word being completed.
	start, end int
	// selected indexes matches while cycling, and is -1 otherwise.
	selected int
	// text and cursor are the input before cycling began, restored by Esc.
	text   string
	cursor int
}

func (c completion) cycling() bool { return c.selected >= 0 }

// recall is the position while browsing history. Only entries starting
// with draft, the input before browsing began, are visited.
type recall struct {
	draft string
	index int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx      context.Context //nolint:containedctx // tea models outlive any call
	session  *session
	history  *History
	logger   log.Logger
	input    textinput.Model
	comp     completion
	recall   recall
	width    int
	quitting bool
}

func newModel(
	ctx context.Context,
	s *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.CharLimit = maxInput
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:     ctx,
		session: s,
		history: history,
		logger:  logger,
		input:   ti,
		comp:    completion{selected: -1},
		recall:  recall{index: history.Len()},
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(prompt)-1, 1)

		return m, nil

	case editDoneMsg:
		return m, printStyled(resultStyle,
			fmt.Sprintf("definitions updated (%d functions)", len(m.session.fns)))

	case editCancelledMsg:
		return m, printStyled(hintStyle, "edit cancelled")

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, printStyled(errorStyle, "error: "+msg.err.Error())
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	switch {
	case m.browsing():
		return hintStyle.Render(fmt.Sprintf("history %d/%d", m.recall.index+1, m.history.Len()))

	case strings.TrimSpace(input) == "":
		return hintStyle.Render("Type a definition, an expression or " + commandPrefix + "help")

	case len(m.comp.matches) > 0:
		return renderCandidateBar(m.comp.matches, m.comp.selected, m.width)

	case isCommand(input):
		return ""
	}

	if call := detectFunctionCall(input, m.input.Position()); call.inCall {
		if name, params, ok := m.session.signature(call.name); ok {
			return renderSignatureHint(name, params, call.argIndex)
		}
	}

	return ""
}

func (m model) key(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl key", slog.String("key", msg.String()))

	empty := m.input.Value() == ""

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if empty {
			m.quitting = true

			return m, tea.Quit
		}

		if msg.Type == tea.KeyCtrlC {
			return m.setLine(""), nil
		}

		return m, nil

	case tea.KeyEnter:
		if m.comp.cycling() {
			m.comp.selected = -1
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1), nil

	case tea.KeyDown:
		return m.browse(1), nil

	case tea.KeyEsc:
		if m.comp.cycling() {
			m.input.SetValue(m.comp.text)
			m.input.SetCursor(m.comp.cursor)
			m.comp.selected = -1
			m.refresh(false)

			return m, nil
		}

		return m.setLine(""), nil
	}

	// Typing accepts the selected candidate; a space or an editing key does
	// not complete the word it ends.
	typing := msg.Type == tea.KeyRunes && msg.String() != " "

	var cmd tea.Cmd

	m.comp.selected = -1
	m.recall.index = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typing)

	return m, cmd
}

// setLine replaces the input, ending any completion or history browsing.
func (m model) setLine(line string) model {
	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	m.comp.selected = -1
	m.recall.index = m.history.Len()
	m.refresh(false)

	return m
}

// refresh recomputes the candidates for the word at the cursor. With
// accept set, a word already equal to its only candidate closes the bar.
func (m *model) refresh(accept bool) {
	m.comp.matches, m.comp.start, m.comp.end = m.candidates()

	if accept && len(m.comp.matches) == 1 &&
		m.input.Value()[m.comp.start:m.comp.end] == m.comp.matches[0].Str {
		m.comp.matches = nil
	}
}

// cycle moves the selected candidate by step, wrapping around, and writes
// it into the input. A lone candidate is completed at once.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.complete(m.comp.matches[0].Str)
		m.comp.matches = nil

		return m

	case m.comp.cycling():
		m.comp.selected = (m.comp.selected + step + n) % n

	default:
		m.comp.text, m.comp.cursor = m.input.Value(), m.input.Position()
		m.comp.selected = 0

		if step < 0 {
			m.comp.selected = n - 1
		}
	}

	m.complete(m.comp.matches[m.comp.selected].Str)

	return m
}

// complete replaces the word being completed with word.
func (m *model) complete(word string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.comp.start] + word + input[m.comp.end:])
	m.comp.end = m.comp.start + len(word)
	m.input.SetCursor(m.comp.end)
}

func (m model) browsing() bool { return m.recall.index < m.history.Len() }

// browse steps through history by dir, -1 toward older entries, visiting
// only those that start with the draft. Stepping past the newest entry
// restores the draft.
func (m model) browse(dir int) model {
	if !m.browsing() {
		if dir > 0 {
			return m
		}

		m.recall.draft = m.input.Value()
	}

	for i := m.recall.index + dir; i >= 0 && i < m.history.Len(); i += dir {
		line, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if strings.HasPrefix(line, m.recall.draft) {
			m = m.setLine(line)
			m.recall.index = i

			return m
		}
	}

	if dir > 0 {
		return m.setLine(m.recall.draft)
	}

	return m
}

// submit runs the input line and prints it with its results.
func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	if err := m.history.Add(line); err != nil {
		m.logger.DebugContext(m.ctx, "history not saved",
			slog.String("error", err.Error()))
	}

	m = m.setLine("")

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line))

	if isCommand(line) {
		next, cmd := m.command(line)

		return next, tea.Sequence(echo, cmd)
	}

	m.logger.TraceContext(m.ctx, "repl eval", slog.String("input", line))

	out, err := m.session.eval(m.ctx, line)

	cmds := []tea.Cmd{echo}
	for _, s := range out {
		cmds = append(cmds, printStyled(resultStyle, s))
	}

	if err != nil {
		cmds = append(cmds, printStyled(errorStyle, "error: "+err.Error()))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{ctx: m.ctx, session: m.session, logger: m.logger}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.edited:
			return editCancelledMsg{}
		}

		return editDoneMsg{}
	})
}

func printStyled(style lipgloss.Style, s string) tea.Cmd {
	return tea.Println(style.Render(s))
}
