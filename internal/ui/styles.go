// Package ui renders the chat session: banner, assistant answers, tool
// activity panels, and errors. Rendering truncates long tool output for the
// terminal only; the conversation keeps the full text.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	toolNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	toolArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	toolOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	toolFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)
