package board

import "fmt"

// ManualMove moves a player by step tiles, as an operator correction.
// Moves by finished players or past either end of the track are discarded
// without error.
func (g *Game) ManualMove(id string, step int) error {
	p := g.players.byID(id)
	if p == nil {
		return fmt.Errorf("board: %w: %s", ErrPlayerNotFound, id)
	}
	moved, err := g.move(p, step)
	if moved {
		g.changed()
	}
	return err
}

// move applies a signed step. Only forward moves resolve bonuses; landing on
// the final tile finishes the player. It reports whether the move applied.
func (g *Game) move(p *Player, step int) (bool, error) {
	if p.Finished() {
		return false, nil
	}

	last := g.cfg.Rules.TrackLength - 1
	target := p.Tile + step
	if target < 0 || target > last {
		g.logger.Debug("move discarded", "player", p.Name, "tile", p.Tile, "step", step)
		return false, nil
	}
	p.Tile = target

	var err error
	if step > 0 {
		err = g.resolveBonus(p, target)
	}
	if target == last {
		g.finish(p)
	}
	return true, err
}

// finish assigns the next finish rank.
func (g *Game) finish(p *Player) {
	g.winCount++
	p.FinishRank = g.winCount
	g.logger.Info("player finished", "player", p.Name, "rank", p.FinishRank)
	g.raise(finishAlert(p))
}
