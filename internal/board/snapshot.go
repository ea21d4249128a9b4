package board

import "fmt"

// Snapshot captures the complete board state for persistence and display.
type Snapshot struct {
	Players  []Player `json:"players"`
	Bonuses  []Bonus  `json:"bonuses"`
	WinCount int      `json:"win_count"`
}

// Snapshot returns a copy of the current board state.
func (g *Game) Snapshot() Snapshot {
	return g.snapshot()
}

func (g *Game) snapshot() Snapshot {
	return Snapshot{
		Players:  g.players.list(),
		Bonuses:  g.bonuses.list(),
		WinCount: g.winCount,
	}
}

// Restore replaces the board state with a saved snapshot. If the snapshot has
// no bonuses the default layout is placed, and the custom tile is brought in
// line with the configuration. Restore does not persist or notify.
func (g *Game) Restore(snap Snapshot) error {
	if err := snap.fits(g.cfg.Rules.TrackLength); err != nil {
		return err
	}

	g.players.clear()
	for _, p := range snap.Players {
		p := p
		g.players.add(&p)
	}
	g.bonuses.clear()
	for _, b := range snap.Bonuses {
		b := b
		g.bonuses.bonuses = append(g.bonuses.bonuses, &b)
	}
	g.winCount = snap.WinCount

	if err := g.bonuses.setupDefaults(g.cfg.Bonuses.Layout, g.newID); err != nil {
		return err
	}
	g.bonuses.applyCustom(g.cfg.CustomTile, g.newID)
	return nil
}

// fits checks that every position in the snapshot lies on a track of the
// given length, that layout bonuses stay on interior tiles and that ranks
// agree with the win counter.
func (s Snapshot) fits(trackLength int) error {
	for _, p := range s.Players {
		if p.Tile < 0 || p.Tile >= trackLength {
			return fmt.Errorf("board: player %s on tile %d does not fit a track of %d", p.Name, p.Tile, trackLength)
		}
		if p.Color < 0 || p.Color >= PaletteSize {
			return fmt.Errorf("board: player %s has color %d outside the palette", p.Name, p.Color)
		}
		if p.FinishRank < 0 || p.FinishRank > s.WinCount {
			return fmt.Errorf("board: player %s has rank %d with %d finishers", p.Name, p.FinishRank, s.WinCount)
		}
		if p.LifetimeCoins < 0 || p.SpendableCoins < 0 {
			return fmt.Errorf("board: player %s has negative coins", p.Name)
		}
	}
	for _, b := range s.Bonuses {
		// Only the custom tile may sit on the start or the final tile.
		lo, hi := 1, trackLength-2
		if b.Kind == KindCustom {
			lo, hi = 0, trackLength-1
		}
		if b.Tile < lo || b.Tile > hi {
			return fmt.Errorf("board: %s bonus on tile %d does not fit a track of %d", b.Kind, b.Tile, trackLength)
		}
	}
	return nil
}
