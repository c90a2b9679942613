package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

// selectModel is the bubbletea model behind both prompt kinds
type selectModel struct {
	label     string
	hint      string
	options   []Option
	multi     bool
	cursor    int
	selected  map[int]bool
	done      bool
	cancelled bool
}

func newSelectModel(label string, options []Option, multi bool, hint string) selectModel {
	return selectModel{
		label:    label,
		hint:     hint,
		options:  options,
		multi:    multi,
		selected: map[int]bool{},
	}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Confirm):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(m.options) - 1
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case m.multi && key.Matches(keyMsg, keys.Toggle):
		m.selected[m.cursor] = !m.selected[m.cursor]
	case m.multi && key.Matches(keyMsg, keys.All):
		all := len(m.chosen()) < len(m.options)
		for i := range m.options {
			m.selected[i] = all
		}
	}

	return m, nil
}

// chosen returns the picked values in option order
func (m selectModel) chosen() []string {
	if m.cancelled {
		return nil
	}
	if !m.multi {
		if len(m.options) == 0 {
			return nil
		}
		return []string{m.options[m.cursor].Value}
	}

	var out []string
	for i, o := range m.options {
		if m.selected[i] {
			out = append(out, o.Value)
		}
	}
	return out
}

func (m selectModel) View() string {
	var b strings.Builder

	if m.done || m.cancelled {
		labels := []string{}
		for i, o := range m.options {
			if (m.multi && m.selected[i]) || (!m.multi && i == m.cursor) {
				labels = append(labels, o.Label)
			}
		}
		answer := strings.Join(labels, ", ")
		if m.cancelled {
			answer = "cancelled"
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(m.label), hintStyle.Render(answer))
		return b.String()
	}

	b.WriteString(labelStyle.Render(m.label))
	b.WriteString("\n")

	for i, o := range m.options {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("❯ ")
		}

		line := o.Label
		if m.multi {
			box := "◻ "
			if m.selected[i] {
				box = selectedStyle.Render("◼ ")
			}
			line = box + line
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}

		b.WriteString(pointer + line + "\n")
	}

	if m.hint != "" {
		b.WriteString(hintStyle.Render(m.hint) + "\n")
	}

	return b.String()
}

// Terminal prompts interactively using a bubbletea program
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter. Nil readers and writers default
// to stdin and stderr.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &Terminal{in: in, out: out}
}

// Select shows a single choice list
func (t *Terminal) Select(ctx context.Context, label string, options []Option) (string, bool, error) {
	m, err := t.run(ctx, newSelectModel(label, options, false, ""))
	if err != nil {
		return "", false, err
	}

	chosen := m.chosen()
	if len(chosen) == 0 {
		return "", false, nil
	}
	return chosen[0], true, nil
}

// MultiSelect shows a checkbox list. Cancelling selects nothing.
func (t *Terminal) MultiSelect(ctx context.Context, label string, options []Option, hint string) ([]string, error) {
	m, err := t.run(ctx, newSelectModel(label, options, true, hint))
	if err != nil {
		return nil, err
	}
	return m.chosen(), nil
}

func (t *Terminal) run(ctx context.Context, m selectModel) (selectModel, error) {
	if len(m.options) == 0 {
		return m, nil
	}

	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := program.Run()
	if err != nil {
		return m, errors.Wrap(err, "failed to run prompt")
	}

	result, ok := final.(selectModel)
	if !ok {
		return m, errors.New("unexpected prompt model")
	}
	return result, nil
}
