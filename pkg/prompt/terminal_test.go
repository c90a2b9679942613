package prompt

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m selectModel, msgs ...tea.KeyMsg) (selectModel, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(selectModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func assertQuit(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSelectModelSingle(t *testing.T) {
	m := newSelectModel("Which editor?", editors, false, "")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.cursor)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.cursor, "wraps to the top")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.cursor, "wraps to the bottom")

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assertQuit(t, cmd)
	assert.True(t, m.done)
	assert.Equal(t, []string{"codex"}, m.chosen())
	assert.Contains(t, m.View(), "Codex")
}

func TestSelectModelSingleIgnoresToggle(t *testing.T) {
	m := newSelectModel("Which editor?", editors, false, "")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, runes("a"))
	assert.Empty(t, m.selected)
}

func TestSelectModelCancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := newSelectModel("Which editor?", editors, false, "")

		m, cmd := press(t, m, msg)
		assertQuit(t, cmd)
		assert.True(t, m.cancelled)
		assert.Nil(t, m.chosen())
		assert.Contains(t, m.View(), "cancelled")
	}
}

func TestSelectModelMulti(t *testing.T) {
	m := newSelectModel("Which skills?", editors, true, "Use space to select, enter to confirm")
	assert.Contains(t, m.View(), "Use space to select, enter to confirm")

	m, _ = press(t, m,
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		runes("x"),
	)
	assert.Equal(t, []string{"vscode", "codex"}, m.chosen())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []string{"vscode"}, m.chosen())

	m, _ = press(t, m, runes("a"))
	assert.Equal(t, []string{"vscode", "cursor", "codex"}, m.chosen())

	m, _ = press(t, m, runes("a"))
	assert.Nil(t, m.chosen())

	m, _ = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.done)
	assert.Equal(t, []string{"vscode", "cursor", "codex"}, m.chosen())
	assert.Contains(t, m.View(), "VS Code, Cursor, Codex")
}

func TestSelectModelIgnoresOtherMessages(t *testing.T) {
	m := newSelectModel("Which editor?", editors, false, "")

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.Equal(t, m.cursor, next.(selectModel).cursor)
}

func TestTerminalEmptyOptions(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&bytes.Buffer{}, &out)

	value, ok, err := term.Select(context.Background(), "Which editor?", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)

	selected, err := term.MultiSelect(context.Background(), "Which skills?", nil, "")
	require.NoError(t, err)
	assert.Empty(t, selected)
	assert.Empty(t, out.String())
}
