// Package tui provides the Bubble Tea integration for the gift board.
// It draws the track, the live standings and the active alert, and maps
// operator keys to coordinator commands.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusTimeout is how long a status line stays on screen.
const statusTimeout = 4 * time.Second

// clearStatusMsg expires the status line with the given sequence number.
type clearStatusMsg struct {
	seq int
}

// clearStatusCmd returns a Bubble Tea command that expires a status line.
func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
