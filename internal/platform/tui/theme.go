package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the console chrome.
type Theme struct {
	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style
	OverlayHint   lipgloss.Style

	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultTheme returns the default visual theme, drawn from the console palette.
func DefaultTheme() Theme {
	return Theme{
		HUDTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEC27")),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF1E8")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("#5F574F")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("#83769C")),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF004D")).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF004D")),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF1E8")),
		OverlayHint:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C2C3C7")).Italic(true),

		MenuTitle:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFEC27")).MarginBottom(1),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C2C3C7")),
		MenuItemActive:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCCAA")),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("#5F574F")),
	}
}
