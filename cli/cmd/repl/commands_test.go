package repl

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/hotmark/log"
)

func TestLookupCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{input: "help", want: "help", ok: true},
		{input: "h", want: "help", ok: true},
		{input: "show", want: "show", ok: true},
		{input: "exit", want: "quit", ok: true},
		{input: "q", want: "quit", ok: true},
		{input: ""},
		{input: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			c, ok := lookupCommand(tt.input)
			if ok != tt.ok || c.name != tt.want {
				t.Errorf("lookupCommand(%q) = (%q, %v), want (%q, %v)", tt.input, c.name, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHelpMessage(t *testing.T) {
	t.Parallel()

	msg := helpMessage()

	for _, want := range append(commandNames(), "set NAME EXPR", "tab/shift+tab", "ctrl+d") {
		if !strings.Contains(msg, want) {
			t.Errorf("helpMessage() does not mention %q", want)
		}
	}
}

// press sends the keys to m in order.
func press(m model, msgs ...tea.KeyMsg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Keys(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), nil, NewHistory(""), log.Logger{})

	m = press(m, typed(`p { "x" }`), tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after esc: mode %v input %q, want command mode with empty line", m.mode, m.input.Value())
	}

	m = press(m, typed("set n 1 + 2"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.env["n"] != 3 {
		t.Errorf("after set: n = %#v, want 3", m.env["n"])
	}

	// Running a line discards the line saved for the other mode.
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeRender || m.input.Value() != "" {
		t.Errorf("after esc: mode %v input %q, want render mode with empty line", m.mode, m.input.Value())
	}

	m = press(m, typed("br;"), tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.input.Value() != "" || m.quitting {
		t.Errorf("ctrl+c on a line: input %q quitting %v", m.input.Value(), m.quitting)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.mode != modeCtrl || m.input.Value() != "set n 1 + 2" {
		t.Errorf("up: mode %v input %q, want the set command", m.mode, m.input.Value())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("down: input %q index %d, want the end of history", m.input.Value(), m.historyIdx)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if !m.quitting {
		t.Error("ctrl+d on an empty line did not quit")
	}
}

func TestModel_TabCycle(t *testing.T) {
	t.Parallel()

	env := map[string]any{"user": map[string]any{"name": "Ann", "nick": "A"}}
	m := newModel(context.Background(), env, NewHistory(""), log.Logger{})

	m = press(m, typed("(user."))
	if len(m.matches) != 2 {
		t.Fatalf("matches after dot = %d, want 2", len(m.matches))
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	first := m.input.Value()

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.input.Value() == first {
		t.Errorf("second tab kept %q", first)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.input.Value() != "(user." || m.mode != modeRender {
		t.Errorf("esc while cycling: input %q mode %v, want the line before cycling", m.input.Value(), m.mode)
	}
}
