package board

// resolveBonus applies the first unclaimed bonus on the tile to the player.
// Disabled kinds are inert. A relocation that finds no free tile returns
// ErrNoFreeTile and leaves both the bonus and the player untouched.
func (g *Game) resolveBonus(p *Player, tile int) error {
	b := g.bonuses.unclaimedAt(tile)
	if b == nil || !g.KindEnabled(b.Kind) {
		return nil
	}

	alert := bonusAlert(b, p)

	switch b.Kind {
	case KindSetback:
		dst, err := g.bonuses.relocationTarget(g.cfg.Rules.TrackLength, g.rng)
		if err != nil {
			return err
		}
		p.Tile = max(0, tile-1)
		b.Tile = dst
	case KindRelocate:
		dst, err := g.bonuses.relocationTarget(g.cfg.Rules.TrackLength, g.rng)
		if err != nil {
			return err
		}
		b.Tile = dst
	case KindSpin, KindShirt, KindCustom:
		b.Claimed = true
	case KindGold:
		p.Color = GoldColor
		b.Claimed = true
	}

	g.logger.Debug("bonus resolved", "player", p.Name, "kind", b.Kind, "tile", tile)
	g.raise(alert)
	return nil
}
