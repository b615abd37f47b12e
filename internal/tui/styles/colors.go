// Package styles provides the color palette and text styles used by the
// vscale CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Gray  = lipgloss.Color("#888888")
	Muted = lipgloss.Color("#555555")

	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)
