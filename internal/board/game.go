// Package board implements the gift board game engine: gifts become coins,
// coins become movement along the track, and landing on bonus tiles applies
// their effects. The engine does no I/O; persistence and notification go
// through the Persister and OnChange hooks.
//
// A Game is not safe for concurrent use. Callers serialize access.
package board

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gift-board/internal/config"
)

// Persister stores a snapshot after every mutating operation.
type Persister interface {
	SaveSnapshot(snap Snapshot) error
}

// Game owns the players, the bonuses and the win counter.
type Game struct {
	cfg    config.Config
	rng    *rand.Rand
	newID  func() string
	store  Persister
	logger *log.Logger

	players  registry
	bonuses  catalog
	winCount int

	alert     Alert
	hasAlert  bool
	alertSeq  uint64
	listeners []func(Snapshot)
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source used for colors and bonus placement.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithSeed seeds the random source. 0 means use the current time.
func WithSeed(seed int64) Option {
	return func(g *Game) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithPersister sets the snapshot store.
func WithPersister(p Persister) Option {
	return func(g *Game) {
		g.store = p
	}
}

// WithLogger sets the logger. By default the game logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(g *Game) {
		g.newID = newID
	}
}

// New creates a game with the default bonus layout and, if enabled, the custom tile.
func New(cfg config.Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:  uuid.NewString,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.bonuses.setupDefaults(cfg.Bonuses.Layout, g.newID); err != nil {
		return nil, err
	}
	g.bonuses.applyCustom(cfg.CustomTile, g.newID)
	return g, nil
}

// Config returns the configuration in effect.
func (g *Game) Config() config.Config {
	return g.cfg
}

// Players returns the players in creation order.
func (g *Game) Players() []Player {
	return g.players.list()
}

// Player returns the player with the given id.
func (g *Game) Player(id string) (Player, bool) {
	p := g.players.byID(id)
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

// Bonuses returns the bonuses in placement order.
func (g *Game) Bonuses() []Bonus {
	return g.bonuses.list()
}

// Standings returns the current leaderboard.
func (g *Game) Standings() []Player {
	return Standings(g.players.list())
}

// WinCount returns the number of players that have finished.
func (g *Game) WinCount() int {
	return g.winCount
}

// KindEnabled reports whether bonuses of the kind currently have an effect.
func (g *Game) KindEnabled(k BonusKind) bool {
	return KindEnabled(g.cfg, k)
}

// OnChange registers fn to be called with a snapshot after every mutating operation.
func (g *Game) OnChange(fn func(Snapshot)) {
	g.listeners = append(g.listeners, fn)
}

// Alert returns the active alert without consuming it.
func (g *Game) Alert() (Alert, bool) {
	return g.alert, g.hasAlert
}

// ConsumeAlert returns the active alert and clears it.
func (g *Game) ConsumeAlert() (Alert, bool) {
	a, ok := g.alert, g.hasAlert
	g.alert = Alert{}
	g.hasAlert = false
	return a, ok
}

// raise replaces the active alert.
func (g *Game) raise(a Alert) {
	g.alertSeq++
	a.Seq = g.alertSeq
	g.alert = a
	g.hasAlert = true
	g.logger.Info("alert", "title", a.Title, "message", a.Message)
}

// AddPlayer adds a player at the start of the track.
func (g *Game) AddPlayer(name string) (Player, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Player{}, fmt.Errorf("board: %w: blank name", ErrInvalidName)
	}
	p := g.createPlayer(normalized)
	g.changed()
	return *p, nil
}

func (g *Game) createPlayer(name string) *Player {
	p := &Player{
		ID:    g.newID(),
		Name:  name,
		Color: g.rng.Intn(GoldColor),
	}
	g.players.add(p)
	g.logger.Debug("player created", "name", p.Name, "id", p.ID)
	return p
}

// RemovePlayer deletes a player. The win counter is not affected.
func (g *Game) RemovePlayer(id string) error {
	if !g.players.remove(id) {
		return fmt.Errorf("board: %w: %s", ErrPlayerNotFound, id)
	}
	g.changed()
	return nil
}

// ResetBoard removes every player, resets the win counter and regenerates
// the bonuses from the configured layout and custom tile.
func (g *Game) ResetBoard() error {
	g.players.clear()
	g.winCount = 0
	g.bonuses.clear()
	g.alert = Alert{}
	g.hasAlert = false
	if err := g.bonuses.setupDefaults(g.cfg.Bonuses.Layout, g.newID); err != nil {
		return err
	}
	g.bonuses.applyCustom(g.cfg.CustomTile, g.newID)
	g.logger.Info("board reset")
	g.changed()
	return nil
}

// ApplyCustomTileConfig adds, replaces or removes the custom bonus.
func (g *Game) ApplyCustomTileConfig(ct config.CustomTile) error {
	cfg := g.cfg
	cfg.CustomTile = ct
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	g.bonuses.applyCustom(ct, g.newID)
	g.changed()
	return nil
}

// ApplyConfig replaces the configuration. Enable flags take effect on the
// next bonus check; the custom tile is re-applied. A configuration whose
// track cannot hold the current players and bonuses is rejected.
func (g *Game) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := g.snapshot().fits(cfg.Rules.TrackLength); err != nil {
		return err
	}
	g.cfg = cfg
	g.bonuses.applyCustom(cfg.CustomTile, g.newID)
	g.changed()
	return nil
}

// RandomizeBonusPlacement moves every bonus to a distinct random interior tile.
func (g *Game) RandomizeBonusPlacement() error {
	if err := g.bonuses.randomize(g.cfg.Rules.TrackLength, g.rng); err != nil {
		return err
	}
	g.changed()
	return nil
}

// changed persists the board and notifies listeners.
func (g *Game) changed() {
	snap := g.snapshot()
	if g.store != nil {
		if err := g.store.SaveSnapshot(snap); err != nil {
			g.logger.Warn("could not save board", "error", err)
		}
	}
	for _, fn := range g.listeners {
		fn(snap)
	}
}
