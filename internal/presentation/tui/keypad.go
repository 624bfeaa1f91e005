package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Engine is the part of the calculator core the keypad drives.
type Engine interface {
	Press(ctx context.Context, state *domain.State, key domain.Key) (*domain.State, error)
	Restore(ctx context.Context, state *domain.State, index int) (*domain.State, error)
}

// CommitFunc persists a state after every change.
type CommitFunc func(ctx context.Context, state *domain.State) error

var (
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(27).
			Align(lipgloss.Right)

	expressionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	resultStyle     = lipgloss.NewStyle().Bold(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	buttonStyle = lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	selectedButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("212")).
				Foreground(lipgloss.Color("212")).
				Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(30)
	selectedEntryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Keypad is the bubbletea model of the calculator keypad.
type Keypad struct {
	ctx    context.Context
	engine Engine
	commit CommitFunc
	state  *domain.State

	row, col int

	showHistory bool
	historyPos  int

	status   string
	quitting bool
}

// KeypadOption configures the Keypad.
type KeypadOption func(*Keypad)

// WithCommit persists the state after every change.
func WithCommit(fn CommitFunc) KeypadOption {
	return func(k *Keypad) {
		k.commit = fn
	}
}

// NewKeypad creates a keypad model starting from state.
func NewKeypad(ctx context.Context, engine Engine, state *domain.State, opts ...KeypadOption) *Keypad {
	if state == nil {
		state = domain.NewState("")
	}
	k := &Keypad{
		ctx:    ctx,
		engine: engine,
		state:  state,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// State returns the current calculator state.
func (k *Keypad) State() *domain.State {
	return k.state
}

// Selected returns the highlighted button.
func (k *Keypad) Selected() domain.Key {
	return domain.Keypad[k.row][k.col]
}

// HistoryVisible reports whether the history panel is open.
func (k *Keypad) HistoryVisible() bool {
	return k.showHistory
}

// Init implements tea.Model
func (k *Keypad) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (k *Keypad) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return k, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC:
		k.quitting = true
		return k, tea.Quit
	case tea.KeyTab:
		k.toggleHistory()
		return k, nil
	}

	if k.showHistory {
		return k.updateHistory(keyMsg)
	}
	return k.updateKeypad(keyMsg)
}

func (k *Keypad) updateKeypad(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		k.move(-1, 0)
	case tea.KeyDown:
		k.move(1, 0)
	case tea.KeyLeft:
		k.move(0, -1)
	case tea.KeyRight:
		k.move(0, 1)
	case tea.KeyEnter, tea.KeySpace:
		k.press(k.Selected())
	case tea.KeyEsc:
		k.press(domain.KeyClear)
	case tea.KeyRunes:
		return k.typed(string(msg.Runes))
	}
	return k, nil
}

func (k *Keypad) typed(s string) (tea.Model, tea.Cmd) {
	switch s {
	case "q":
		k.quitting = true
		return k, tea.Quit
	case "h":
		k.toggleHistory()
		return k, nil
	case "n":
		k.press(domain.KeySign)
		return k, nil
	}
	key, err := domain.ParseKey(s)
	if err != nil {
		k.status = fmt.Sprintf("no key for %q", s)
		return k, nil
	}
	k.press(key)
	return k, nil
}

func (k *Keypad) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if k.historyPos > 0 {
			k.historyPos--
		}
	case tea.KeyDown:
		if k.historyPos < len(k.state.History)-1 {
			k.historyPos++
		}
	case tea.KeyEnter:
		k.restore(k.historyPos)
	case tea.KeyEsc:
		k.showHistory = false
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			k.quitting = true
			return k, tea.Quit
		case "h":
			k.toggleHistory()
		}
	}
	return k, nil
}

func (k *Keypad) toggleHistory() {
	k.showHistory = !k.showHistory
	k.historyPos = 0
}

// move shifts the selection, clamping to the row length.
func (k *Keypad) move(dr, dc int) {
	rows := domain.Keypad
	k.row = clamp(k.row+dr, 0, len(rows)-1)
	k.col = clamp(k.col+dc, 0, len(rows[k.row])-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (k *Keypad) press(key domain.Key) {
	next, err := k.engine.Press(k.ctx, k.state, key)
	if err != nil {
		k.status = err.Error()
		return
	}
	k.apply(next)
}

func (k *Keypad) restore(index int) {
	next, err := k.engine.Restore(k.ctx, k.state, index)
	if err != nil {
		k.status = err.Error()
		return
	}
	k.showHistory = false
	k.apply(next)
}

func (k *Keypad) apply(next *domain.State) {
	k.state = next
	k.status = ""
	if k.commit != nil {
		if err := k.commit(k.ctx, next); err != nil {
			k.status = fmt.Sprintf("save failed: %v", err)
		}
	}
}

// View implements tea.Model
func (k *Keypad) View() string {
	if k.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(k.renderDisplay())
	b.WriteString("\n")

	if k.showHistory {
		b.WriteString(k.renderHistory())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓: Select • Enter: Restore • Tab/Esc: Keypad • q: Quit"))
	} else {
		b.WriteString(k.renderButtons())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Type keys or ←↑→↓ + Enter • Tab: History • Esc: AC • q: Quit"))
	}

	if k.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(k.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (k *Keypad) renderDisplay() string {
	expression := k.state.Expression
	if expression == "" {
		expression = " "
	}
	line := resultStyle.Render(k.state.Display())
	if k.state.IsError() {
		line = errorStyle.Render(k.state.Display())
	}
	return displayStyle.Render(expressionStyle.Render(expression) + "\n" + line)
}

func (k *Keypad) renderButtons() string {
	rows := make([]string, 0, len(domain.Keypad))
	for r, row := range domain.Keypad {
		cells := make([]string, 0, len(row))
		for c, key := range row {
			style := buttonStyle
			if r == k.row && c == k.col {
				style = selectedButtonStyle
			}
			cells = append(cells, style.Render(string(key)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (k *Keypad) renderHistory() string {
	if len(k.state.History) == 0 {
		return panelStyle.Render("No calculations yet.")
	}
	lines := make([]string, 0, len(k.state.History))
	for i, entry := range k.state.History {
		line := fmt.Sprintf("%s = %s", entry.Expression, entry.Result)
		if i == k.historyPos {
			line = selectedEntryStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// RunKeypad runs the keypad until the user quits and returns the final state.
func RunKeypad(ctx context.Context, model *Keypad, opts ...tea.ProgramOption) (*domain.State, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return model.State(), err
	}
	return model.State(), nil
}
