package repl

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	tea "github.com/charmbracelet/bubbletea"
)

// keyMap binds the keys of the REPL. Each reverse direction shares the help
// entry of its forward binding.
type keyMap struct {
	Exit, Clear, Enter, Toggle key.Binding
	Next, Prev                 key.Binding
	Older, Newer               key.Binding
	OlderInMode, NewerInMode   key.Binding
	OlderCtrl, NewerCtrl       key.Binding
}

//nolint:gochecknoglobals
var keys = keyMap{
	Exit:        key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit")),
	Clear:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "clear line, exit if empty")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run, or keep the selected candidate")),
	Toggle:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "toggle command mode, or undo completion")),
	Next:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/shift+tab", "cycle candidates, space accepts")),
	Prev:        key.NewBinding(key.WithKeys("shift+tab")),
	Older:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "history, switching mode")),
	Newer:       key.NewBinding(key.WithKeys("down")),
	OlderInMode: key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑/↓", "history of this mode")),
	NewerInMode: key.NewBinding(key.WithKeys("shift+down")),
	OlderCtrl:   key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+↑/↓", "command history, then back")),
	NewerCtrl:   key.NewBinding(key.WithKeys("alt+down")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Exit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Toggle, k.Next, k.Clear, k.Exit},
		{k.Older, k.OlderInMode, k.OlderCtrl},
	}
}

// keyHelp renders the full key help.
func keyHelp() string {
	h := help.New()
	h.FullSeparator = "    "

	return h.FullHelpView(keys.FullHelp())
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl key", slog.String("key", msg.String()))

	empty := m.input.Value() == ""

	switch {
	case key.Matches(msg, keys.Exit) && empty,
		key.Matches(msg, keys.Clear) && empty:
		m.quitting = true

		return m, tea.Quit

	case key.Matches(msg, keys.Exit):
		return m, nil

	case key.Matches(msg, keys.Clear):
		m.input.SetValue("")
		m.tabActive, m.altNavActive = false, false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case key.Matches(msg, keys.Enter):
		m.altNavActive = false

		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.executeInput()

	case key.Matches(msg, keys.Next):
		return m.cycleCandidate(1), nil
	case key.Matches(msg, keys.Prev):
		return m.cycleCandidate(-1), nil
	case key.Matches(msg, keys.Older):
		return m.historyStep(-1), nil
	case key.Matches(msg, keys.Newer):
		return m.historyStep(1), nil
	case key.Matches(msg, keys.OlderInMode):
		return m.historyStepInMode(-1), nil
	case key.Matches(msg, keys.NewerInMode):
		return m.historyStepInMode(1), nil
	case key.Matches(msg, keys.OlderCtrl):
		return m.historyStepCtrl(-1), nil
	case key.Matches(msg, keys.NewerCtrl):
		return m.historyStepCtrl(1), nil

	case key.Matches(msg, keys.Toggle):
		if m.tabActive {
			m.tabActive = false
			m = m.restore(m.preTab)

			return m, nil
		}

		m.altNavActive = false

		return m.switchToMode(m.mode.toggled()), nil
	}

	// Typing a rune may complete a word; other keys only edit or move.
	typed := msg.Type == tea.KeyRunes
	if !typed || msg.String() == " " {
		m.tabActive = false
	}

	if !typed {
		m.altNavActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, typed)

	return m, cmd
}

// cycleCandidate moves the tab selection by dir and puts the selected
// candidate in place of the current word. A sole candidate is accepted
// at once.
func (m model) cycleCandidate(dir int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive, m.suggIdx, m.matches = false, -1, nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTab = m.current()
		m.suggIdx = 0

		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes s for the word being completed and moves
// the cursor after it.
func replaceCurrentWord(m *model, s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.wordEnd = m.wordStart + len(s)
	m.input.SetCursor(m.wordEnd)
}

// refreshMatches recomputes the candidates of the word at the cursor. If
// accept is set and the typed word already equals its only candidate, the
// completion is accepted and the bar cleared.
func refreshMatches(m *model, accept bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if accept && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive, m.suggIdx, m.matches = false, -1, nil
	}
}
