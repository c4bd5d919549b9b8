package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#4DA6FF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#008000", Dark: "#00D700"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FFCC00"}
	colorError   = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF3333"}
	colorSubtle  = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#999999"}
	colorFocus   = lipgloss.AdaptiveColor{Light: "#E6F3FF", Dark: "#003366"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Background(colorFocus).
			Bold(true)

	hotkeyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)
