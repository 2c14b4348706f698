package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// selectorModel is a simple list selector.
type selectorModel struct {
	title     string
	items     []string
	cursor    int
	selected  string
	cancelled bool
}

func (m selectorModel) Init() tea.Cmd {
	return nil
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.items) {
				m.selected = m.items[m.cursor]
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m selectorModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	var content strings.Builder
	for i, item := range m.items {
		cursor := "  "
		style := itemStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedItemStyle
		}
		content.WriteString(style.Render(cursor + item))
		if i < len(m.items)-1 {
			content.WriteString("\n")
		}
	}
	b.WriteString(boxStyle.Render(content.String()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑↓ move • Enter select • Esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// runSelector runs a selector program and returns the chosen item.
func runSelector(title string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("nothing to select")
	}
	p := tea.NewProgram(selectorModel{title: title, items: items})
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	m := result.(selectorModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.selected, nil
}
