// Package styles contains the shared styles for console output.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	Check = "✔"
	Cross = "✘"
	Warn  = "!"
)

const (
	ColorSuccess = "#22c55e"
	ColorWarning = "#eab308"
	ColorError   = "#d75f6b"
	ColorSubtle  = "#a3a3a3"
)

var (
	Bold = lipgloss.NewStyle().Bold(true).Render

	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render
	Subtle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSubtle)).Render
)

// ErrorBox creates a bordered error box with title and message. Every line
// of a multi-line message gets its own border segment.
func ErrorBox(title, message string) string {
	redStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSubtle))

	lines := []string{redStyle.Render("╭ " + title)}
	for line := range strings.SplitSeq(strings.TrimRight(message, "\n"), "\n") {
		lines = append(lines, redStyle.Render("│")+" "+subtleStyle.Render(line))
	}
	lines = append(lines, redStyle.Render("╵"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
