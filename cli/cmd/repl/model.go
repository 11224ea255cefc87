package repl

import (
	"context"
	"log/slog"
	"maps"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/hotmark/log"
)

const (
	renderPrompt = "➜ "
	ctrlPrompt   = " :"
	defaultWidth = 80
)

// inputMode is what the input line is interpreted as: markup to render or
// a control command.
type inputMode int

const (
	modeRender inputMode = iota
	modeCtrl
)

func (m inputMode) toggled() inputMode {
	if m == modeRender {
		return modeCtrl
	}

	return modeRender
}

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(renderPrompt)
}

//nolint:gochecknoglobals
var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
)

// echo is input as printed above the results, after the prompt of mode.
func echo(mode inputMode, input string) string {
	return mode.prompt() + inputStyle.Render(input)
}

// savedInput is an input line with its cursor.
type savedInput struct {
	text   string
	cursor int
}

// model is the Bubble Tea model of the REPL.
type model struct {
	ctxFunc    func() context.Context
	env        map[string]any
	history    *History
	logger     log.Logger
	matches    fuzzy.Matches
	candidates []string
	input      textinput.Model

	// saved holds the line of each mode while the other is shown.
	saved [2]savedInput

	// preTab is restored when tab-cycling is abandoned. altOrig and
	// altOrigMode are restored when Alt history navigation runs out.
	preTab      savedInput
	altOrig     savedInput
	altOrigMode inputMode

	historyIdx int

	// wordStart and wordEnd delimit the word being completed.
	wordStart int
	wordEnd   int

	suggIdx int
	width   int
	show    showMode
	mode    inputMode

	tabActive    bool
	altNavActive bool
	quitting     bool
}

// Run runs the REPL on the terminal until the user exits. env holds the
// initial variables. History is kept in cacheDir.
func Run(ctx context.Context, env map[string]any, cacheDir string, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("vars", len(env)),
		slog.Int("history", history.Len()),
	)

	_, err = tea.NewProgram(newModel(ctx, env, history, logger), tea.WithContext(ctx)).Run()

	return err
}

func newModel(ctx context.Context, env map[string]any, history *History, logger log.Logger) model {
	input := textinput.New()
	input.Prompt = modeRender.prompt()
	input.CharLimit = 4096
	input.Width = defaultWidth
	input.Focus()

	vars := map[string]any{}
	maps.Copy(vars, env)

	return model{
		ctxFunc:    func() context.Context { return ctx },
		env:        vars,
		history:    history,
		logger:     logger,
		input:      input,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeRender,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(renderPrompt) - 2

		return m, nil

	case editVarsMsg:
		m.env = msg.env
		m.logger.TraceContext(m.ctxFunc(), "repl vars edited", slog.Int("vars", len(m.env)))

		return m, tea.Println(resultStyle.Render("✔ variables updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

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

	return m.input.View() + "\n" + m.hintLine() + "\n"
}

// hintLine is shown below the input. It holds the history position while
// browsing, a usage hint on an empty line, the signature of the function
// being called, or else the completion bar.
func (m model) hintLine() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(pos + "/" + strconv.Itoa(m.history.Len()))

	case strings.TrimSpace(input) == "" && m.mode == modeRender:
		return hintStyle.Render("Type markup to render as " + m.show.String() + " or press Esc for commands")

	case strings.TrimSpace(input) == "":
		return hintStyle.Render("Type: " + strings.Join(commandNames(), ", ") + " (press Esc to return)")
	}

	if m.mode == modeRender {
		if name, arg, ok := callAt(input, m.input.Position()); ok {
			if sig, ok := lookupSignature(m.env, name); ok {
				return sig.render(arg)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

// executeInput records the input line in history and runs it as a command
// or renders it as markup.
func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]savedInput{}
	m.input.SetValue("")

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl render",
		slog.String("input", input),
		slog.String("show", m.show.String()),
	)

	out, err := renderInput(m.ctxFunc(), input, m.env, m.show, m.logger)
	if err != nil {
		return m, tea.Sequence(tea.Println(echo(modeRender, input)), replyError(err))
	}

	return m, tea.Sequence(tea.Println(echo(modeRender, input)), reply(resultStyle.Render(out)))
}

func (m model) current() savedInput {
	return savedInput{text: m.input.Value(), cursor: m.input.Position()}
}

// restore shows in, recomputing completions without accepting any.
func (m model) restore(in savedInput) model {
	m.input.SetValue(in.text)
	m.input.SetCursor(in.cursor)
	refreshMatches(&m, false)

	return m
}

// switchToMode shows the line last entered in mode, keeping the line of the
// current mode for when it returns.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = m.current()
	m.mode = mode
	m.input.Prompt = mode.prompt()

	return m.restore(m.saved[mode])
}

// showEntry puts history entry i on the input line, first switching to its
// mode if follow is set.
func (m model) showEntry(i int, follow bool) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if follow && entry.Mode != m.mode {
		m = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i

	return m.restore(savedInput{text: entry.Line, cursor: len(entry.Line)})
}

// leaveHistory stops browsing with an empty line.
func (m model) leaveHistory() model {
	m.historyIdx = m.history.Len()

	return m.restore(savedInput{})
}

// historyStep browses all entries by dir, following the mode of each.
func (m model) historyStep(dir int) model {
	switch i := m.historyIdx + dir; {
	case i < 0:
		return m
	case i >= m.history.Len():
		return m.leaveHistory()
	default:
		return m.showEntry(i, true)
	}
}

// historyStepInMode browses by dir the entries of the current mode.
func (m model) historyStepInMode(dir int) model {
	if i, ok := m.nearestEntry(dir, m.mode); ok {
		return m.showEntry(i, false)
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		return m.leaveHistory()
	}

	return m
}

// historyStepCtrl browses command entries from either mode. The line and
// mode shown before browsing return when no entry remains in direction dir.
func (m model) historyStepCtrl(dir int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altOrigMode = m.mode
		m.altOrig = m.current()
		m = m.switchToMode(modeCtrl)
	}

	if i, ok := m.nearestEntry(dir, modeCtrl); ok {
		return m.showEntry(i, false)
	}

	m.altNavActive = false
	m = m.switchToMode(m.altOrigMode)
	m.historyIdx = m.history.Len()

	return m.restore(m.altOrig)
}

// nearestEntry finds the closest entry of mode from the current position
// in direction dir.
func (m model) nearestEntry(dir int, mode inputMode) (int, bool) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if e, err := m.history.Entry(i); err == nil && e.Mode == mode {
			return i, true
		}
	}

	return 0, false
}
