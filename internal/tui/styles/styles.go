package styles

import (
	"github.com/charmbracelet/lipgloss"

	"thebits/vscale/internal/server/domain"
)

var (
	// MutedText is for hints and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// SuccessText is for success messages.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// StateStyle returns the style for a node state.
func StateStyle(state domain.NodeState) lipgloss.Style {
	switch state {
	case domain.NodeStateRunning:
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case domain.NodeStatePending:
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case domain.NodeStateSuspended:
		return lipgloss.NewStyle().Foreground(Yellow)
	case domain.NodeStateStopped:
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StateIndicator returns a small dot + state text with appropriate color.
func StateIndicator(state domain.NodeState) string {
	style := StateStyle(state)
	return style.Render("●") + " " + style.Render(string(state))
}
