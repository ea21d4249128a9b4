// Package live runs a board for an audience: one goroutine owns the game and
// applies gifts and operator commands in order, then pushes the new state to
// every connected viewer.
package live

import (
	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/config"
)

// Update carries the board state after a command.
type Update struct {
	Config    config.Config
	Snapshot  board.Snapshot
	Standings []board.Player
	Alert     board.Alert
	HasAlert  bool
	Feed      FeedStatus
	Viewers   int
}

// FeedStatus describes the gift feed connection.
type FeedStatus int

const (
	FeedOffline FeedStatus = iota // No feed configured
	FeedConnected
	FeedDisconnected
)

func (s FeedStatus) String() string {
	switch s {
	case FeedOffline:
		return "Offline"
	case FeedConnected:
		return "Connected"
	case FeedDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// Command is a request to change the board. Commands are applied one at a
// time on the coordinator goroutine.
type Command interface {
	command()
}

// GiftCmd applies a gift from the stream.
type GiftCmd struct {
	Gift board.Gift
}

func (GiftCmd) command() {}

// SimulateCmd applies a test gift from a random viewer.
type SimulateCmd struct{}

func (SimulateCmd) command() {}

// MoveCmd moves a player by Step tiles.
type MoveCmd struct {
	PlayerID string
	Step     int
}

func (MoveCmd) command() {}

// AddPlayerCmd adds a player by name.
type AddPlayerCmd struct {
	Name string
}

func (AddPlayerCmd) command() {}

// RemovePlayerCmd removes a player.
type RemovePlayerCmd struct {
	PlayerID string
}

func (RemovePlayerCmd) command() {}

// ResetCmd clears the board.
type ResetCmd struct{}

func (ResetCmd) command() {}

// RandomizeCmd shuffles bonus placement.
type RandomizeCmd struct{}

func (RandomizeCmd) command() {}

// ApplyConfigCmd replaces the configuration.
type ApplyConfigCmd struct {
	Config config.Config
}

func (ApplyConfigCmd) command() {}

// DismissAlertCmd consumes the active alert.
type DismissAlertCmd struct{}

func (DismissAlertCmd) command() {}

// FeedStatusCmd records a change in the gift feed connection.
type FeedStatusCmd struct {
	Status FeedStatus
}

func (FeedStatusCmd) command() {}

// registerCmd attaches a viewer and sends it the current state.
type registerCmd struct {
	session SessionHandle
}

func (registerCmd) command() {}
