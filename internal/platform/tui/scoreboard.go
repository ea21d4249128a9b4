package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/storage"
)

// Scoreboard layout constants
const (
	maxGifters     = 50 // Max gifters to load
	standingsWidth = 36 // Width of the standings panel
)

// GifterSource loads the gift leaderboard.
type GifterSource interface {
	TopGifters(limit int) ([]storage.Gifter, error)
}

// newTable creates a table with the shared styles.
func newTable(columns []table.Column, height int, focused bool) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(focused),
		table.WithHeight(max(3, height)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// standingsTable creates the live standings table.
func standingsTable(height int) table.Model {
	return newTable([]table.Column{
		{Title: "", Width: 2},
		{Title: "Player", Width: 6},
		{Title: "Coins", Width: 10},
		{Title: "Position", Width: 10},
	}, height, true)
}

// standingsRows converts ranked players to table rows.
func standingsRows(players []board.Player) []table.Row {
	rows := make([]table.Row, len(players))
	for i, p := range players {
		status := "•"
		position := fmt.Sprintf("Tile %d", p.Tile+1)
		if p.Finished() {
			status = "🏁"
			position = "FINISHED"
		}
		rows[i] = table.Row{
			status,
			p.Name,
			fmt.Sprintf("(%d)", p.LifetimeCoins),
			position,
		}
	}
	return rows
}

// GiftersView shows the players with the most coins gifted.
type GiftersView struct {
	gifters []storage.Gifter
	table   table.Model
	err     error
	width   int
	height  int
}

// NewGiftersView creates an empty gifters view.
func NewGiftersView(width, height int) GiftersView {
	v := GiftersView{width: width, height: height}
	v.table = v.createTable()
	return v
}

// createTable creates a new table with appropriate columns.
func (v *GiftersView) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 8},
		{Title: "Gifts", Width: 8},
		{Title: "Coins", Width: 12},
		{Title: "Last Gift", Width: 14},
	}
	return newTable(columns, v.height-8, true)
}

// SetGifters replaces the rows shown.
func (v *GiftersView) SetGifters(gifters []storage.Gifter, err error) {
	v.gifters, v.err = gifters, err
	v.updateTableRows()
}

// giftersLoadedMsg carries the result of loadGiftersCmd.
type giftersLoadedMsg struct {
	gifters []storage.Gifter
	err     error
}

// loadGiftersCmd reads the leaderboard off the UI goroutine.
func loadGiftersCmd(src GifterSource) tea.Cmd {
	return func() tea.Msg {
		gifters, err := src.TopGifters(maxGifters)
		return giftersLoadedMsg{gifters: gifters, err: err}
	}
}

// updateTableRows updates the table with current gifters.
func (v *GiftersView) updateTableRows() {
	rows := make([]table.Row, len(v.gifters))
	for i, g := range v.gifters {
		last := ""
		if !g.LastGift.IsZero() {
			last = g.LastGift.Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			g.Player,
			fmt.Sprintf("%d", g.Gifts),
			fmt.Sprintf("%d", g.Coins),
			last,
		}
	}
	v.table.SetRows(rows)
	v.table.GotoTop()
}

// SetSize resizes the table.
func (v *GiftersView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.table = v.createTable()
	v.updateTableRows()
}

// Update passes scroll keys to the table.
func (v GiftersView) Update(msg tea.Msg) (GiftersView, tea.Cmd) {
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View renders the gifters table or an empty message.
func (v GiftersView) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("🎁 TOP GIFTERS", v.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var content string
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case v.err != nil:
		content = emptyStyle.Render(fmt.Sprintf("Could not load gifters:\n%v", v.err))
	case len(v.gifters) == 0:
		content = emptyStyle.Render("No gifts recorded yet.\nSend a test gift with g!")
	default:
		content = v.table.View()
	}

	b.WriteString(centerText(tableStyle.Render(content), v.width))
	return b.String()
}

// centerText centers each line of text within the given width.
func centerText(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		w := lipgloss.Width(line)
		if w < width {
			lines[i] = strings.Repeat(" ", (width-w)/2) + line
		}
	}
	return strings.Join(lines, "\n")
}
