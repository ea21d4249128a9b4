package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gift-board/internal/board"
)

// ErrStopped is returned by Do after the coordinator has stopped.
var ErrStopped = errors.New("live: coordinator stopped")

// GiftRecorder is an interface for logging received gifts.
// This allows the coordinator to keep a gift log without depending on the storage package.
type GiftRecorder interface {
	RecordGift(rec GiftRecord) error
}

// GiftRecord is one applied gift.
type GiftRecord struct {
	User     string
	Player   string
	GiftName string
	Count    int
	Coins    int
}

// envelope pairs a command with an optional reply channel.
type envelope struct {
	cmd   Command
	reply chan error
}

// Coordinator owns the game and serializes every change to it.
type Coordinator struct {
	game     *board.Game
	sessions *viewerSet
	recorder GiftRecorder // Optional, can be nil
	logger   *log.Logger

	feed  FeedStatus
	dirty bool

	msgChan  chan envelope
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator for the game. The game must not be
// used directly once the coordinator has started.
func NewCoordinator(game *board.Game, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Coordinator{
		game:     game,
		sessions: newViewerSet(),
		logger:   logger,
		msgChan:  make(chan envelope, 256),
		done:     make(chan struct{}),
	}
	game.OnChange(func(board.Snapshot) { c.dirty = true })
	return c
}

// SetGiftRecorder sets the optional gift log.
func (c *Coordinator) SetGiftRecorder(r GiftRecorder) {
	c.recorder = r
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
}

// Stop shuts down the coordinator. Safe to call more than once.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Send queues a command without waiting for it to be applied.
func (c *Coordinator) Send(cmd Command) {
	select {
	case c.msgChan <- envelope{cmd: cmd}:
	case <-c.done:
	}
}

// Do applies a command and waits for its result.
func (c *Coordinator) Do(ctx context.Context, cmd Command) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}

	reply := make(chan error, 1)
	select {
	case c.msgChan <- envelope{cmd: cmd, reply: reply}:
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register attaches a viewer. It receives the current state right away and
// an Update after every command.
func (c *Coordinator) Register(session SessionHandle) {
	c.sessions.add(session)
	c.Send(registerCmd{session: session})
}

// Unregister detaches a viewer.
func (c *Coordinator) Unregister(id SessionID) {
	c.sessions.remove(id)
}

// ViewerCount returns the number of attached viewers.
func (c *Coordinator) ViewerCount() int {
	return c.sessions.count()
}

// HandleGift queues a gift from the stream. It has the signature of a
// feed callback.
func (c *Coordinator) HandleGift(g board.Gift) {
	c.Send(GiftCmd{Gift: g})
}

// SetFeedStatus queues a feed connection change.
func (c *Coordinator) SetFeedStatus(connected bool) {
	status := FeedDisconnected
	if connected {
		status = FeedConnected
	}
	c.Send(FeedStatusCmd{Status: status})
}

// processMessages handles incoming commands.
func (c *Coordinator) processMessages() {
	for {
		select {
		case env := <-c.msgChan:
			err := c.handleMessage(env.cmd)
			if env.reply != nil {
				env.reply <- err
			} else if err != nil {
				c.logger.Warn("command failed", "command", fmt.Sprintf("%T", env.cmd), "error", err)
			}
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(cmd Command) error {
	var err error
	broadcast := true

	switch m := cmd.(type) {
	case GiftCmd:
		err = c.handleGift(m.Gift)
	case SimulateCmd:
		var res board.Result
		res, err = c.game.SimulateGift()
		c.logger.Info("simulated gift", "player", res.Player.Name, "tile", res.Player.Tile)
	case MoveCmd:
		err = c.game.ManualMove(m.PlayerID, m.Step)
	case AddPlayerCmd:
		var p board.Player
		p, err = c.game.AddPlayer(m.Name)
		if err == nil {
			c.logger.Info("player added", "player", p.Name)
		}
	case RemovePlayerCmd:
		err = c.game.RemovePlayer(m.PlayerID)
	case ResetCmd:
		err = c.game.ResetBoard()
	case RandomizeCmd:
		err = c.game.RandomizeBonusPlacement()
	case ApplyConfigCmd:
		err = c.game.ApplyConfig(m.Config)
	case DismissAlertCmd:
		_, c.dirty = c.game.ConsumeAlert()
	case FeedStatusCmd:
		c.dirty = c.feed != m.Status
		c.feed = m.Status
	case registerCmd:
		m.session.Send(c.update())
		broadcast = false
	default:
		err = fmt.Errorf("live: unknown command %T", cmd)
	}

	if broadcast && c.dirty {
		c.broadcast(c.update())
	}
	c.dirty = false
	return err
}

// handleGift applies a gift and records it. Invalid gifts are dropped.
func (c *Coordinator) handleGift(g board.Gift) error {
	res, err := c.game.ProcessGift(g)
	if errors.Is(err, board.ErrInvalidGift) {
		return err
	}

	c.logger.Info("gift",
		"user", g.User,
		"player", res.Player.Name,
		"gift", g.Name,
		"coins", res.Coins,
		"tile", res.Player.Tile,
	)

	if c.recorder != nil {
		rec := GiftRecord{
			User:     g.User,
			Player:   res.Player.Name,
			GiftName: g.Name,
			Count:    g.Count,
			Coins:    res.Coins,
		}
		if rerr := c.recorder.RecordGift(rec); rerr != nil {
			c.logger.Warn("could not record gift", "error", rerr)
		}
	}
	return err
}

// update builds the state pushed to viewers.
func (c *Coordinator) update() Update {
	alert, ok := c.game.Alert()
	return Update{
		Config:    c.game.Config(),
		Snapshot:  c.game.Snapshot(),
		Standings: c.game.Standings(),
		Alert:     alert,
		HasAlert:  ok,
		Feed:      c.feed,
		Viewers:   c.sessions.count(),
	}
}

// broadcast sends the update to every viewer and drops closed sessions.
func (c *Coordinator) broadcast(u Update) {
	for _, s := range c.sessions.list() {
		select {
		case <-s.Done():
			c.sessions.remove(s.ID())
			continue
		default:
		}
		s.Send(u)
	}
}
