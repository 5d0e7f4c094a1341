package repl

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// commandPrefix starts every command line.
const commandPrefix = ":"

// command describes a REPL command for help and completion.
type command struct {
	name  string
	alias string
	args  string
	usage string
}

var commands = []command{
	{name: "help", alias: "h", usage: "Print this message"},
	{name: "list", alias: "l", usage: "List defined functions"},
	{name: "load", args: "FILE", usage: "Define the functions in FILE"},
	{name: "edit", alias: "e", usage: "Edit the definitions in $EDITOR"},
	{name: "reset", usage: "Forget every definition"},
	{name: "clear", usage: "Clear the screen"},
	{name: "quit", alias: "q", usage: "Exit"},
}

const keyHelp = `Keys:
  Tab, Shift+Tab   Cycle through completions
  Up, Down         Browse history entries starting with the typed text
  Esc              Undo a completion, or clear the line
  Ctrl+C, Ctrl+D   Exit on an empty line`

// usage returns the help text.
func usage() string {
	var b strings.Builder

	b.WriteString("\nEnter \"function name(a, b = 1) { body }\" to define a function,\n")
	b.WriteString("\"#export path(component)\" to see where a directive writes,\n")
	b.WriteString("or any other expression to see it expanded.\n\nCommands:\n")

	for _, c := range commands {
		name := commandPrefix + c.name
		if c.args != "" {
			name += " " + c.args
		}

		if c.alias != "" {
			name += " (" + commandPrefix + c.alias + ")"
		}

		fmt.Fprintf(&b, "  %-16s %s\n", name, c.usage)
	}

	b.WriteString("\n" + keyHelp + "\n")

	return b.String()
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// lookupCommand returns the name of the command called name or aliased by
// it.
func lookupCommand(name string) (string, bool) {
	i := slices.IndexFunc(commands, func(c command) bool {
		return c.name == name || (c.alias != "" && c.alias == name)
	})
	if i < 0 {
		return "", false
	}

	return commands[i].name, true
}

func isCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commandPrefix)
}

// command runs a command line.
func (m model) command(line string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(line), commandPrefix), " ")
	arg = strings.TrimSpace(arg)

	m.logger.TraceContext(m.ctx, "repl command", slog.String("command", name))

	found, ok := lookupCommand(name)
	if !ok {
		return m, printStyled(errorStyle,
			fmt.Sprintf("unknown command %q (try %shelp)", name, commandPrefix))
	}

	switch found {
	case "quit":
		m.quitting = true

		return m, tea.Quit

	case "help":
		return m, tea.Println(usage())

	case "list":
		return m, tea.Println(m.session.listing())

	case "load":
		return m, m.loadFile(arg)

	case "edit":
		return m, m.edit()

	case "reset":
		m.session.fns = nil

		return m, printStyled(hintStyle, "definitions cleared")

	case "clear":
		return m, tea.ClearScreen
	}

	return m, nil
}

func (m model) loadFile(path string) tea.Cmd {
	if path == "" {
		return printStyled(errorStyle, "usage: "+commandPrefix+"load FILE")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return printStyled(errorStyle, "error: "+err.Error())
	}

	n := m.session.load(m.ctx, string(data))

	return printStyled(resultStyle, fmt.Sprintf("loaded %d functions from %s", n, path))
}
