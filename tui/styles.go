package tui

import "github.com/charmbracelet/lipgloss"

// Colors - soft, muted palette
var (
	primaryColor = lipgloss.Color("109") // soft teal
	accentColor  = lipgloss.Color("146") // soft lavender
	successColor = lipgloss.Color("108") // soft sage green
	errorColor   = lipgloss.Color("174") // soft coral
	dimColor     = lipgloss.Color("245") // light gray
	borderColor  = lipgloss.Color("240") // subtle gray
)

// Base styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	itemStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			MarginTop(1)
)
