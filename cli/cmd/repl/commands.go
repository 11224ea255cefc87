package repl

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/hotmark/host"
)

// command is a control-mode command. run returns the output printed after
// the echoed command line, if any.
type command struct {
	name  string
	short string
	args  string
	about string
	run   func(m model, args string) (model, tea.Cmd)
}

// commands returns the control-mode commands in help order.
func commands() []command {
	return []command{
		{name: "help", short: "h", about: "Print this help", run: model.helpCmd},
		{name: "vars", short: "v", about: "List template variables", run: model.varsCmd},
		{name: "set", short: "s", args: "NAME EXPR", about: "Bind NAME to the value of EXPR", run: model.setCmd},
		{name: "unset", short: "u", args: "NAME", about: "Remove variable NAME", run: model.unsetCmd},
		{name: "show", args: "[MODE]", about: "Render markup as " + strings.Join(showModeNames[:], ", "), run: model.showCmd},
		{name: "edit", short: "e", about: "Edit variables as YAML in $VISUAL or $EDITOR", run: model.editCmd},
		{name: "clear", short: "c", about: "Clear the screen", run: model.clearCmd},
		{name: "quit", short: "q", about: "Exit", run: model.quitCmd},
	}
}

// commandNames returns the full names of the control-mode commands.
func commandNames() []string {
	var names []string
	for _, c := range commands() {
		names = append(names, c.name)
	}

	return names
}

func lookupCommand(name string) (command, bool) {
	if name == "exit" {
		name = "quit"
	}

	for _, c := range commands() {
		if name == c.name || name != "" && name == c.short {
			return c, true
		}
	}

	return command{}, false
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\nCommands (Esc toggles command mode):\n\n")

	for _, c := range commands() {
		fmt.Fprintf(&b, "  %-17s %s\n", strings.TrimSpace(c.name+" "+c.args), c.about)
	}

	b.WriteString("\nIn render mode, markup is rendered with the current variables.\n")
	b.WriteString("Completions appear as you type.\n\n")
	b.WriteString(keyHelp())
	b.WriteString("\n")

	return b.String()
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("args", args),
	)

	c, ok := lookupCommand(name)
	if !ok {
		return m, tea.Println(errorStyle.Render("unknown command " + name + " (try help)"))
	}

	m, out := c.run(m, args)

	return m, tea.Sequence(tea.Println(echo(modeCtrl, input)), out)
}

func reply(s string) tea.Cmd { return tea.Println(s) }

func replyError(err error) tea.Cmd {
	return tea.Println(errorStyle.Render("error: " + err.Error()))
}

func (m model) helpCmd(string) (model, tea.Cmd) { return m, reply(helpMessage()) }

func (m model) varsCmd(string) (model, tea.Cmd) { return m, reply(m.listVars()) }

func (m model) setCmd(args string) (model, tea.Cmd) {
	name, err := m.setVar(args)
	if err != nil {
		return m, replyError(err)
	}

	return m, reply(resultStyle.Render("✔ " + name))
}

func (m model) unsetCmd(args string) (model, tea.Cmd) {
	delete(m.env, args)

	return m, nil
}

func (m model) showCmd(args string) (model, tea.Cmd) {
	if args == "" {
		return m, reply(hintStyle.Render("showing " + m.show.String()))
	}

	show, err := parseShowMode(args)
	if err != nil {
		return m, replyError(err)
	}

	m.show = show

	return m, nil
}

func (m model) editCmd(string) (model, tea.Cmd) { return m, m.editVars() }

func (m model) clearCmd(string) (model, tea.Cmd) { return m, tea.ClearScreen }

func (m model) quitCmd(string) (model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

// setVar binds a variable from args of the form "NAME EXPR" or
// "NAME = EXPR". EXPR is evaluated with the current variables.
func (m model) setVar(args string) (string, error) {
	args = strings.TrimSpace(args)

	end := strings.IndexAny(args, " =")
	if end <= 0 {
		return "", ErrUsage.With(slog.String("usage", "set NAME EXPR"))
	}

	name, src := args[:end], strings.TrimSpace(args[end:])
	src = strings.TrimSpace(strings.TrimPrefix(src, "="))

	e, err := host.Compile(src)
	if err != nil {
		return "", err
	}

	v, err := e.Eval(host.NewScope(m.env))
	if err != nil {
		return "", err
	}

	m.env[name] = v

	return name, nil
}

// Messages delivered when the external edit of the variables ends.
type (
	editVarsMsg      struct{ env map[string]any }
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

func (m model) editVars() tea.Cmd {
	cmd := &editVarsCommand{env: m.env, ctxFunc: m.ctxFunc, logger: m.logger}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newEnv == nil:
			return editCancelledMsg{}
		default:
			return editVarsMsg{env: cmd.newEnv}
		}
	})
}

func (m model) listVars() string {
	if len(m.env) == 0 {
		return hintStyle.Render("  (no variables)")
	}

	lines := make([]string, 0, len(m.env))

	for _, name := range slices.Sorted(maps.Keys(m.env)) {
		lines = append(lines, "  "+name+" "+hintStyle.Render(formatPreview(m.env[name])))
	}

	return strings.Join(lines, "\n")
}
