// Package tui is the interactive configuration editor. It talks to the
// store exclusively through its public operations; all user interaction goes
// through the Prompter capability interface so the flows can run against a
// scripted double in tests.
package tui

import "errors"

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter is the closed set of interactions the editor flows need.
type Prompter interface {
	// Select presents options and returns the chosen one.
	Select(title string, options []string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(message string) (bool, error)
	// Text prompts for a single line of free-form input.
	Text(label, placeholder string) (string, error)
}

// teaPrompter renders each prompt as its own bubbletea program.
type teaPrompter struct{}

// NewPrompter returns the interactive, terminal-backed Prompter.
func NewPrompter() Prompter { return teaPrompter{} }

func (teaPrompter) Select(title string, options []string) (string, error) {
	return runSelector(title, options)
}

func (teaPrompter) Confirm(message string) (bool, error) {
	return runConfirm(message)
}

func (teaPrompter) Text(label, placeholder string) (string, error) {
	return runTextInput(label, placeholder)
}
