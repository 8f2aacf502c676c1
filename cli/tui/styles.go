// Package tui provides the Bubble Tea report browser for the
// fenceline CLI.
//
// TUI rules:
//   - TUI is opt-in only (--tui flag on inspect)
//   - TUI is read-only; it renders the same report payload as the
//     non-TUI formats, never TUI-exclusive data
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fenceline-io/fenceline/types"
)

// Color palette.
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	accentColor  = lipgloss.Color("#3B82F6") // Blue
)

// Styles for TUI components.
var (
	// TitleStyle for headers and titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// LabelStyle for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(12)

	// ValueStyle for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// PassStyle for passed blocks.
	PassStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// FailStyle for failed blocks.
	FailStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// ErrStyle for errored blocks and malformed documents.
	ErrStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// SkipStyle for skipped blocks.
	SkipStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// SelectedStyle for the cursor row.
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	// BoxStyle for the detail pane.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	// HelpStyle for the key hint line.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// StatusStyle returns the style for a run status or the special
// "malformed" marker.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case string(types.StatusPassed):
		return PassStyle
	case string(types.StatusFailed):
		return FailStyle
	case string(types.StatusErrored), "malformed":
		return ErrStyle
	case string(types.StatusSkipped):
		return SkipStyle
	default:
		return ValueStyle
	}
}

// ClassStyle returns the style for a classification.
func ClassStyle(class types.Classification) lipgloss.Style {
	switch class {
	case types.ClassRunnable:
		return PassStyle
	case types.ClassFragment:
		return ErrStyle
	case types.ClassTranscript:
		return SkipStyle
	default:
		return ValueStyle
	}
}
