// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"} // Main/primary text
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#696969"} // Hints, help text, paths

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Completed
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#C98A00", Dark: "#FECA57"} // Cancelled
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Failed

	// Selection indicator color (used for ">" prefix in lists)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#FFFFFF"}

	TitleStyle              = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	NameStyle               = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MutedStyle              = lipgloss.NewStyle().Foreground(TextMutedColor)
	SuccessStyle            = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	WarningStyle            = lipgloss.NewStyle().Foreground(StatusWarningColor)
	ErrorStyle              = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
)
