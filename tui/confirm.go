package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is a yes/no question.
type confirmModel struct {
	message   string
	yes       bool
	answered  bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "y", "Y":
			m.yes = true
			m.answered = true
			return m, tea.Quit
		case "n", "N":
			m.yes = false
			m.answered = true
			return m, tea.Quit
		case "left", "right", "h", "l", "tab":
			m.yes = !m.yes
		case "enter":
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.message))
	b.WriteString("\n\n  ")

	yes, no := itemStyle.Render("Yes"), selectedItemStyle.Render("▸ No")
	if m.yes {
		yes, no = selectedItemStyle.Render("▸ Yes"), itemStyle.Render("No")
	}
	b.WriteString(yes + "   " + no)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("y/n • ←→ toggle • Enter confirm • Esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// runConfirm asks a yes/no question, defaulting to no.
func runConfirm(message string) (bool, error) {
	p := tea.NewProgram(confirmModel{message: message})
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	m := result.(confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.yes, nil
}
