package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gift-board/internal/core"
)

// cellStyle returns the lipgloss style for a palette color.
func cellStyle(c core.Color) lipgloss.Style {
	style := lipgloss.NewStyle()
	if code := c.ANSI(); code != "" {
		style = style.Foreground(lipgloss.Color(code))
	}
	return style.Bold(c.Emphasized())
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Each run of same-colored cells is styled once.
func RenderScreen(s *core.Screen) string {
	styles := make(map[core.Color]lipgloss.Style)
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, r := range colorRuns(s, y) {
			style, ok := styles[r.color]
			if !ok {
				style = cellStyle(r.color)
				styles[r.color] = style
			}
			sb.WriteString(style.Render(r.text))
		}
	}
	return sb.String()
}

type colorRun struct {
	color core.Color
	text  string
}

// colorRuns splits a screen row into runs of one color.
func colorRuns(s *core.Screen, y int) []colorRun {
	var runs []colorRun
	var text []rune
	for x := 0; x < s.Width(); x++ {
		cell := s.GetCell(x, y)
		if len(runs) > 0 && runs[len(runs)-1].color == cell.Color {
			text = append(text, cell.Rune)
			continue
		}
		if len(runs) > 0 {
			runs[len(runs)-1].text = string(text)
		}
		runs = append(runs, colorRun{color: cell.Color})
		text = append(text[:0], cell.Rune)
	}
	if len(runs) > 0 {
		runs[len(runs)-1].text = string(text)
	}
	return runs
}
