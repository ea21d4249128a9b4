package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/core"
	"github.com/vovakirdan/gift-board/internal/live"
)

// commandTimeout bounds how long the UI waits for the coordinator.
const commandTimeout = 5 * time.Second

// viewMode is the screen the board model is showing.
type viewMode int

const (
	modeBoard        viewMode = iota // Track and standings
	modeAddPlayer                    // Name input
	modeConfirmReset                 // Waiting for y/n
	modeGifters                      // Top gifters table
)

// sessionClosedMsg is sent when the viewer session ends.
type sessionClosedMsg struct{}

// commandResultMsg carries the outcome of an operator command.
type commandResultMsg struct {
	ok  string
	err error
}

// BoardModel is the Bubble Tea model for the live board.
// Operators drive the game with keys; viewers only watch.
type BoardModel struct {
	coord    *live.Coordinator
	session  *live.ChannelSession
	operator bool
	gifters  GifterSource // Optional, can be nil

	state    live.Update
	hasState bool

	screen      *core.Screen
	standings   table.Model
	giftersView GiftersView
	input       textinput.Model
	help        help.Model
	keys        BoardKeyMap
	mode        viewMode

	status    string
	statusErr bool
	statusSeq int

	width    int
	height   int
	quitting bool
}

// BoardOptions configures a board model.
type BoardOptions struct {
	Operator bool         // Allow commands; viewers are read-only
	Gifters  GifterSource // Source for the top gifters view
	Width    int
	Height   int
}

// NewBoardModel creates a board model and registers its session with the
// coordinator. The first Update arrives once the program starts.
func NewBoardModel(coord *live.Coordinator, session *live.ChannelSession, opts BoardOptions) BoardModel {
	keys := DefaultBoardKeyMap()
	if !opts.Operator {
		keys = ViewerKeyMap()
	}
	if opts.Gifters == nil {
		keys.Gifters.SetEnabled(false)
	}

	input := textinput.New()
	input.Placeholder = "viewer name"
	input.CharLimit = 32
	input.Width = 20

	h := help.New()
	h.ShowAll = false
	h.Width = opts.Width

	m := BoardModel{
		coord:       coord,
		session:     session,
		operator:    opts.Operator,
		gifters:     opts.Gifters,
		screen:      core.NewScreen(opts.Width, opts.Height),
		giftersView: NewGiftersView(opts.Width, opts.Height),
		input:       input,
		help:        h,
		keys:        keys,
		width:       opts.Width,
		height:      opts.Height,
	}
	m.standings = standingsTable(m.standingsHeight())

	coord.Register(session)
	return m
}

// Init starts listening for board updates.
func (m BoardModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m BoardModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-m.session.Events():
			return evt
		case <-m.session.Done():
			return sessionClosedMsg{}
		}
	}
}

// do sends a command to the coordinator and reports the outcome.
func (m BoardModel) do(cmd live.Command, ok string) tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return commandResultMsg{ok: ok, err: coord.Do(ctx, cmd)}
	}
}

// Update handles messages and updates the model state.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case live.Update:
		m.applyUpdate(msg)
		return m, m.waitForEvent()

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case commandResultMsg:
		return m.setStatus(msg.ok, msg.err)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case giftersLoadedMsg:
		m.giftersView.SetGifters(msg.gifters, msg.err)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyUpdate stores the new state and refreshes the standings table.
func (m *BoardModel) applyUpdate(u live.Update) {
	m.state = u
	m.hasState = true

	cursor := m.standings.Cursor()
	m.standings.SetRows(standingsRows(u.Standings))
	if n := len(u.Standings); n > 0 && cursor >= n {
		m.standings.SetCursor(n - 1)
	}
}

// setStatus shows a short-lived status line.
func (m BoardModel) setStatus(text string, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		text = describeError(err)
	}
	if text == "" {
		return m, nil
	}
	m.status = text
	m.statusErr = err != nil
	m.statusSeq++
	return m, clearStatusCmd(m.statusSeq)
}

// describeError turns command errors into operator-facing text.
func describeError(err error) string {
	switch {
	case errors.Is(err, board.ErrInvalidName):
		return "Name must not be empty"
	case errors.Is(err, board.ErrPlayerNotFound):
		return "Player is no longer on the board"
	case errors.Is(err, board.ErrNoFreeTile):
		return "No free tile left for bonuses"
	case errors.Is(err, live.ErrStopped):
		return "Board is shutting down"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// handleResize processes window resize events.
func (m BoardModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, msg.Height)
	m.giftersView.SetSize(msg.Width, msg.Height)

	cursor := m.standings.Cursor()
	m.standings = standingsTable(m.standingsHeight())
	m.standings.SetRows(standingsRows(m.state.Standings))
	m.standings.SetCursor(cursor)
	return m, nil
}

// handleKey processes keyboard input for the current mode.
func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.mode {
	case modeAddPlayer:
		return m.handleAddPlayerKey(msg)
	case modeConfirmReset:
		return m.handleConfirmResetKey(msg)
	case modeGifters:
		return m.handleGiftersKey(msg)
	case modeBoard:
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.standings, cmd = m.standings.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		return m.moveSelected(-1)

	case key.Matches(msg, m.keys.Forward):
		return m.moveSelected(1)

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAddPlayer
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Remove):
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.do(live.RemovePlayerCmd{PlayerID: p.ID}, fmt.Sprintf("Removed %s", p.Name))

	case key.Matches(msg, m.keys.Reset):
		m.mode = modeConfirmReset
		return m, nil

	case key.Matches(msg, m.keys.Randomize):
		return m, m.do(live.RandomizeCmd{}, "Bonuses shuffled")

	case key.Matches(msg, m.keys.Simulate):
		return m, m.do(live.SimulateCmd{}, "Test gift sent")

	case key.Matches(msg, m.keys.Dismiss):
		if !m.state.HasAlert {
			return m, nil
		}
		return m, m.do(live.DismissAlertCmd{}, "")

	case key.Matches(msg, m.keys.Gifters):
		m.mode = modeGifters
		return m, loadGiftersCmd(m.gifters)
	}

	return m, nil
}

// moveSelected moves the selected player by step tiles.
func (m BoardModel) moveSelected(step int) (tea.Model, tea.Cmd) {
	p, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m, m.do(live.MoveCmd{PlayerID: p.ID, Step: step}, "")
}

// selected returns the player under the standings cursor.
func (m BoardModel) selected() (board.Player, bool) {
	i := m.standings.Cursor()
	if i < 0 || i >= len(m.state.Standings) {
		return board.Player{}, false
	}
	return m.state.Standings[i], true
}

func (m BoardModel) handleAddPlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBoard
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		name := m.input.Value()
		m.mode = modeBoard
		m.input.Blur()
		return m, m.do(live.AddPlayerCmd{Name: name}, fmt.Sprintf("Added %s", board.NormalizeName(name)))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BoardModel) handleConfirmResetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBoard
	if msg.String() == "y" || msg.String() == "Y" {
		return m, m.do(live.ResetCmd{}, "Board reset")
	}
	return m.setStatus("Reset cancelled", nil)
}

func (m BoardModel) handleGiftersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Gifters), msg.Type == tea.KeyEsc:
		m.mode = modeBoard
		return m, nil
	}

	var cmd tea.Cmd
	m.giftersView, cmd = m.giftersView.Update(msg)
	return m, cmd
}

// quit detaches from the coordinator and exits.
func (m BoardModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.coord.Unregister(m.session.ID())
	m.session.Close()
	return m, tea.Quit
}

// standingsHeight returns the number of table rows that fit.
func (m BoardModel) standingsHeight() int {
	return m.height - 10
}

// boardWidth returns the width available to the track.
func (m BoardModel) boardWidth() int {
	if m.width >= tileW*3+standingsWidth+4 {
		return m.width - standingsWidth - 4
	}
	return m.width
}

// View renders the current state to a string for display.
func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.hasState {
		return "Connecting to the board...\n"
	}
	if m.mode == modeGifters {
		return m.giftersView.View() + "\n" + m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.state.HasAlert {
		b.WriteString(renderAlert(m.state.Alert, m.width))
		b.WriteString("\n")
	}

	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader draws the title, subtitle and feed status.
func (m BoardModel) renderHeader() string {
	cfg := m.state.Config

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	title := strings.Join(strings.Fields(strings.ReplaceAll(cfg.Board.Title, "\n", " ")), " ")
	if cfg.Board.HolidayTheme {
		title = "❄ " + title + " ❄"
	}

	line := titleStyle.Render(title) + "  " + subtitleStyle.Render(cfg.Board.Subtitle)
	status := fmt.Sprintf("%s  👀 %d", renderFeed(m.state.Feed), m.state.Viewers)
	if !m.operator {
		status += "  (view only)"
	}
	return line + "\n" + status
}

// renderFeed draws the feed status dot.
func renderFeed(f live.FeedStatus) string {
	color := "241"
	switch f {
	case live.FeedConnected:
		color = "10"
	case live.FeedDisconnected:
		color = "9"
	case live.FeedOffline:
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
	return dot + " " + f.String()
}

// renderAlert draws the active alert in a box.
func renderAlert(a board.Alert, width int) string {
	color := "212"
	switch {
	case a.Kind == board.AlertFinish:
		color = "220"
	case a.Bonus == board.KindSetback:
		color = "196"
	case a.Bonus == board.KindGold:
		color = "220"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 2).
		Align(lipgloss.Center)
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(a.Title)
	return centerText(box.Render(title+"\n"+a.Message), width)
}

// renderBody draws the track next to (or above) the standings.
func (m BoardModel) renderBody() string {
	bw := m.boardWidth()
	w, h := BoardSize(bw, m.state.Config.Rules.TrackLength)
	m.screen.Resize(w, h)
	DrawBoard(m.screen, m.state.Config, m.state.Snapshot)
	track := RenderScreen(m.screen)

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var panel string
	if len(m.state.Standings) == 0 {
		panel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Render("Waiting for gifts...")
	} else {
		panel = m.standings.View()
	}
	panel = panelStyle.Render(titleStyle.Render("🏆 LIVE STANDINGS") + "\n" + panel)

	if bw < m.width {
		return lipgloss.JoinHorizontal(lipgloss.Top, track, "  ", panel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, track, panel)
}

// renderFooter draws the prompt, status line and help bar.
func (m BoardModel) renderFooter() string {
	var b strings.Builder

	switch m.mode {
	case modeAddPlayer:
		b.WriteString("Add player: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeConfirmReset:
		warn := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
		b.WriteString(warn.Render("Reset the board and remove every player? (y/n)"))
		b.WriteString("\n")
	case modeBoard, modeGifters:
	}

	if m.status != "" {
		color := "10"
		if m.statusErr {
			color = "9"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m BoardModel) renderHelp() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	return helpStyle.Render(m.help.View(m.keys))
}

// Run starts the operator board for the coordinator.
func Run(coord *live.Coordinator, gifters GifterSource, width, height int) error {
	session := live.NewChannelSession(live.SessionID(fmt.Sprintf("operator-%d", time.Now().UnixNano())), 16)
	model := NewBoardModel(coord, session, BoardOptions{
		Operator: true,
		Gifters:  gifters,
		Width:    width,
		Height:   height,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	coord.Unregister(session.ID())
	session.Close()
	return err
}
