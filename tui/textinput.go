package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// textModel prompts for a single line of input.
type textModel struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newTextModel(label, placeholder string) textModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Focus()
	return textModel{label: label, input: ti}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.label))
	b.WriteString("\n\n  ")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter submit • Esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// runTextInput prompts for a line of text and returns it trimmed.
func runTextInput(label, placeholder string) (string, error) {
	p := tea.NewProgram(newTextModel(label, placeholder))
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	m := result.(textModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return strings.TrimSpace(m.input.Value()), nil
}
