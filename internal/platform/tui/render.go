package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/term8/internal/core"
)

// halfBlock shows the top pixel in the foreground and the bottom pixel in
// the background, fitting two console rows in one terminal row.
const halfBlock = "▀"

// CellRows is the number of terminal rows a rendered screen occupies.
const CellRows = core.ScreenHeight / 2

// pairStyles holds a style for every (top, bottom) colour pair.
var pairStyles [core.PaletteSize][core.PaletteSize]lipgloss.Style

func init() {
	for top := range core.PaletteSize {
		for bottom := range core.PaletteSize {
			pairStyles[top][bottom] = lipgloss.NewStyle().
				Foreground(lipgloss.Color(core.Color(top).Hex())).
				Background(lipgloss.Color(core.Color(bottom).Hex()))
		}
	}
}

// RenderScreen converts a Screen to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*CellRows*8 + CellRows)

	for row := range CellRows {
		if row > 0 {
			sb.WriteRune('\n')
		}
		y := row * 2

		// Group consecutive cells with the same colour pair
		x := 0
		for x < s.Width() {
			top, bottom := s.Get(x, y), s.Get(x, y+1)

			n := 0
			for x < s.Width() && s.Get(x, y) == top && s.Get(x, y+1) == bottom {
				n++
				x++
			}

			sb.WriteString(pairStyles[top][bottom].Render(strings.Repeat(halfBlock, n)))
		}
	}
	return sb.String()
}
