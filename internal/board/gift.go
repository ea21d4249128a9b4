package board

import (
	"fmt"
	"math"
	"strings"
)

// Gift is a decoded gift event from the stream.
type Gift struct {
	User  string // Viewer name as sent by the stream
	Name  string // Gift name, informational
	Count int    // Number of gifts, at least 1
	Coins *int   // Coins per gift; nil means 1
}

// CoinsPerGift returns the coin value of a single gift.
func (g Gift) CoinsPerGift() int {
	if g.Coins == nil {
		return 1
	}
	return *g.Coins
}

// Value returns the total coin value of the event.
func (g Gift) Value() int {
	return g.CoinsPerGift() * g.Count
}

// Validate rejects events that must not touch the board.
func (g Gift) Validate() error {
	switch {
	case strings.TrimSpace(g.User) == "":
		return fmt.Errorf("board: %w: missing user name", ErrInvalidGift)
	case g.Count < 1:
		return fmt.Errorf("board: %w: count %d", ErrInvalidGift, g.Count)
	case g.CoinsPerGift() < 0:
		return fmt.Errorf("board: %w: coins %d", ErrInvalidGift, g.CoinsPerGift())
	case g.CoinsPerGift() > math.MaxInt/g.Count:
		return fmt.Errorf("board: %w: %d x %d coins overflows", ErrInvalidGift, g.Count, g.CoinsPerGift())
	}
	return nil
}

// Result describes what a gift did.
type Result struct {
	Player  Player // State after the gift
	Created bool   // The gift created the player
	Coins   int    // Coins credited
	Moves   int    // Tiles bought
	Moved   bool   // The move was applied (false when finished or past the end)
}

// ProcessGift credits a gift to the viewer's player, creating it if needed,
// and converts whole multiples of the move cost into forward movement.
// Spent coins are deducted even when the move is discarded.
func (g *Game) ProcessGift(gift Gift) (Result, error) {
	if err := gift.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	name := NormalizeName(gift.User)
	p := g.players.byName(name)
	// Spendable never exceeds lifetime, so guarding lifetime covers both.
	if p != nil && p.LifetimeCoins > math.MaxInt-gift.Value() {
		return Result{}, fmt.Errorf("board: %w: %s lifetime coins would overflow", ErrInvalidGift, p.Name)
	}
	if p == nil {
		p = g.createPlayer(name)
		res.Created = true
	}

	res.Coins = gift.Value()
	p.LifetimeCoins += res.Coins
	p.SpendableCoins += res.Coins

	cost := g.cfg.Rules.CostPerMove
	res.Moves = p.SpendableCoins / cost
	var err error
	if res.Moves >= 1 {
		p.SpendableCoins -= res.Moves * cost
		res.Moved, err = g.move(p, res.Moves)
	}

	g.logger.Debug("gift processed",
		"user", gift.User,
		"player", p.Name,
		"gift", gift.Name,
		"coins", res.Coins,
		"moves", res.Moves,
		"tile", p.Tile,
	)

	res.Player = *p
	g.changed()
	return res, err
}

// SimulateGift applies a 1000-coin gift from a random TEST_<n> viewer.
func (g *Game) SimulateGift() (Result, error) {
	coins := 1000
	return g.ProcessGift(Gift{
		User:  fmt.Sprintf("TEST_%d", g.rng.Intn(99)+1),
		Name:  "Galaxy",
		Count: 1,
		Coins: &coins,
	})
}
