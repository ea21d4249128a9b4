package board

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/gift-board/internal/config"
)

// Bonus is a special tile on the track.
type Bonus struct {
	ID      string    `json:"id"`
	Tile    int       `json:"tile"`
	Kind    BonusKind `json:"kind"`
	Claimed bool      `json:"claimed"`
	Title   string    `json:"title,omitempty"`   // Custom only
	Message string    `json:"message,omitempty"` // Custom only
}

// catalog holds the bonuses in placement order. Lookups return the first
// match, so the custom bonus (always appended last) loses ties.
type catalog struct {
	bonuses []*Bonus
}

// setupDefaults places the configured layout when the board has no bonuses.
func (c *catalog) setupDefaults(layout []config.LayoutEntry, newID func() string) error {
	if len(c.bonuses) > 0 {
		return nil
	}
	for _, e := range layout {
		kind, err := ParseKind(e.Kind)
		if err != nil {
			return err
		}
		c.bonuses = append(c.bonuses, &Bonus{ID: newID(), Tile: e.Tile, Kind: kind})
	}
	return nil
}

// applyCustom brings the custom bonus in line with the custom tile settings.
// An existing custom bonus with the same tile and copy is kept, claim state
// included; any other change replaces it with a fresh unclaimed one.
func (c *catalog) applyCustom(ct config.CustomTile, newID func() string) {
	if ct.Enabled {
		for _, b := range c.bonuses {
			if b.Kind == KindCustom && b.Tile == ct.Index && b.Title == ct.Title && b.Message == ct.Message {
				return
			}
		}
	}

	kept := c.bonuses[:0]
	for _, b := range c.bonuses {
		if b.Kind != KindCustom {
			kept = append(kept, b)
		}
	}
	c.bonuses = kept

	if ct.Enabled {
		c.bonuses = append(c.bonuses, &Bonus{
			ID:      newID(),
			Tile:    ct.Index,
			Kind:    KindCustom,
			Title:   ct.Title,
			Message: ct.Message,
		})
	}
}

// unclaimedAt returns the first unclaimed bonus on the tile, or nil.
func (c *catalog) unclaimedAt(tile int) *Bonus {
	for _, b := range c.bonuses {
		if b.Tile == tile && !b.Claimed {
			return b
		}
	}
	return nil
}

// relocationTarget picks a random interior tile that no unclaimed bonus
// occupies, including the bonus being moved.
func (c *catalog) relocationTarget(trackLength int, rng *rand.Rand) (int, error) {
	taken := make(map[int]bool, len(c.bonuses))
	for _, b := range c.bonuses {
		if !b.Claimed {
			taken[b.Tile] = true
		}
	}
	return pickFreeTile(trackLength, taken, rng)
}

// randomize moves every bonus to a random interior tile not used by any other
// bonus. Tiles are chosen in order, so later picks avoid earlier ones.
func (c *catalog) randomize(trackLength int, rng *rand.Rand) error {
	if interior := trackLength - 2; len(c.bonuses) > interior {
		return fmt.Errorf("board: %w: %d bonuses on %d interior tiles", ErrNoFreeTile, len(c.bonuses), max(interior, 0))
	}
	for _, b := range c.bonuses {
		taken := make(map[int]bool, len(c.bonuses))
		for _, other := range c.bonuses {
			if other != b {
				taken[other.Tile] = true
			}
		}
		tile, err := pickFreeTile(trackLength, taken, rng)
		if err != nil {
			return err
		}
		b.Tile = tile
	}
	return nil
}

func (c *catalog) clear() {
	c.bonuses = nil
}

// list returns copies of all bonuses in placement order.
func (c *catalog) list() []Bonus {
	out := make([]Bonus, len(c.bonuses))
	for i, b := range c.bonuses {
		out[i] = *b
	}
	return out
}

// pickFreeTile chooses uniformly among tiles in [1, trackLength-2] that are not taken.
func pickFreeTile(trackLength int, taken map[int]bool, rng *rand.Rand) (int, error) {
	var free []int
	for tile := 1; tile <= trackLength-2; tile++ {
		if !taken[tile] {
			free = append(free, tile)
		}
	}
	if len(free) == 0 {
		return 0, fmt.Errorf("board: %w: all %d interior tiles are taken", ErrNoFreeTile, max(trackLength-2, 0))
	}
	return free[rng.Intn(len(free))], nil
}
