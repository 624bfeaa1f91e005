package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(k *Keypad, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = k.Update(msg)
	}
	return cmd
}

func newKeypad(opts ...KeypadOption) *Keypad {
	return NewKeypad(context.Background(), tally.New(), domain.NewState("tui"), opts...)
}

func TestKeypad_TypedKeys(t *testing.T) {
	k := newKeypad()

	send(k, runes("3"), runes("+"), runes("4"), runes("*"), runes("2"), runes("="))

	assert.Equal(t, "3+4×2", k.State().Expression)
	assert.Equal(t, "11", k.State().Result)
	assert.Contains(t, k.View(), "11")
}

func TestKeypad_Navigation(t *testing.T) {
	k := newKeypad()
	assert.Equal(t, domain.KeyClear, k.Selected())

	send(k, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, domain.Key("8"), k.Selected())

	send(k, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "8", k.State().Expression)

	// The bottom row is shorter; the column clamps.
	send(k, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, domain.KeyEquals, k.Selected())

	send(k, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, domain.KeyPercent, k.Selected())
}

func TestKeypad_SignEscapeAndUnknown(t *testing.T) {
	k := newKeypad()

	send(k, runes("5"), runes("n"))
	assert.Equal(t, "-5", k.State().Expression)

	send(k, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, k.State().Expression)

	send(k, runes("^"))
	assert.Contains(t, k.View(), "no key")
}

func TestKeypad_HistoryPanel(t *testing.T) {
	k := newKeypad()
	send(k, runes("1"), runes("+"), runes("1"), runes("="),
		runes("c"), runes("2"), runes("x"), runes("3"), runes("="))

	send(k, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, k.HistoryVisible())
	view := k.View()
	assert.Contains(t, view, "2×3 = 6")
	assert.Contains(t, view, "1+1 = 2")

	send(k, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, k.HistoryVisible())
	assert.Equal(t, "1+1", k.State().Expression)
	assert.Equal(t, "2", k.State().Result)
}

func TestKeypad_EmptyHistory(t *testing.T) {
	k := newKeypad()
	send(k, runes("h"))
	assert.Contains(t, k.View(), "No calculations yet.")

	send(k, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, k.View(), domain.ErrHistoryIndex.Error())

	send(k, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, k.HistoryVisible())
}

func TestKeypad_Commit(t *testing.T) {
	var saved []*domain.State
	k := newKeypad(WithCommit(func(ctx context.Context, state *domain.State) error {
		saved = append(saved, state)
		return nil
	}))

	send(k, runes("7"), runes("="))
	require.Len(t, saved, 2)
	assert.Equal(t, "7", saved[1].Result)

	failing := newKeypad(WithCommit(func(ctx context.Context, state *domain.State) error {
		return errors.New("disk full")
	}))
	send(failing, runes("7"))
	assert.Equal(t, "7", failing.State().Expression)
	assert.Contains(t, failing.View(), "save failed: disk full")
}

func TestKeypad_Quit(t *testing.T) {
	k := newKeypad()
	cmd := send(k, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, k.View())

	k = newKeypad()
	cmd = send(k, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0")
	assert.Contains(t, buf.String(), "v0.1.0")
}

func TestRenderHistory(t *testing.T) {
	out, err := RenderHistory(domain.History{{Expression: "1+1", Result: "2"}})
	require.NoError(t, err)
	assert.Contains(t, out, "1+1")

	out, err = RenderHistory(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "No calculations yet.")
}
