package tui

import (
	"fmt"

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/config"
	"github.com/vovakirdan/gift-board/internal/core"
)

// Tile layout constants
const (
	tileW   = 10
	tileH   = 4
	tileGap = 1
)

// pawnColors maps player palette indices to screen colors.
// The last entry is the gold pawn.
var pawnColors = [board.PaletteSize]core.Color{
	core.ColorBrightRed,
	core.ColorBrightBlue,
	core.ColorOrange,
	core.ColorPurple,
	core.ColorPink,
	core.ColorBrightCyan,
	core.ColorBrightGreen,
	core.ColorBrightYellow,
}

// PawnColor returns the screen color of a palette index.
func PawnColor(i int) core.Color {
	if i < 0 || i >= len(pawnColors) {
		return core.ColorWhite
	}
	return pawnColors[i]
}

// boardGrid returns the tile grid for a screen width.
func boardGrid(width int) core.Grid {
	return core.NewGrid(width, tileW, tileH, tileGap)
}

// BoardSize returns the size of the drawn track for a screen width.
func BoardSize(width, trackLength int) (int, int) {
	return boardGrid(width).Size(trackLength)
}

// tileStyle is the look of a single tile.
type tileStyle struct {
	border core.Color
	tag    string
}

// visibleBonus returns the bonus drawn on a tile: the first unclaimed,
// enabled, non-trap bonus. Traps are never shown.
func visibleBonus(cfg config.Config, bonuses []board.Bonus, tile int) (board.Bonus, bool) {
	for _, b := range bonuses {
		if b.Tile != tile || b.Claimed || b.Kind == board.KindSetback {
			continue
		}
		if !board.KindEnabled(cfg, b.Kind) {
			continue
		}
		return b, true
	}
	return board.Bonus{}, false
}

// styleFor picks the border color and tag of a tile.
func styleFor(cfg config.Config, bonuses []board.Bonus, tile int) tileStyle {
	if tile == cfg.Rules.TrackLength-1 {
		return tileStyle{border: core.ColorBrightYellow, tag: "★"}
	}

	if b, ok := visibleBonus(cfg, bonuses, tile); ok {
		switch b.Kind {
		case board.KindShirt:
			return tileStyle{border: core.ColorOrange, tag: "SHRT"}
		case board.KindSpin:
			return tileStyle{border: core.ColorBrightGreen, tag: "SPIN"}
		case board.KindGold:
			return tileStyle{border: core.ColorBrightYellow, tag: "GOLD"}
		case board.KindRelocate:
			return tileStyle{border: core.ColorPurple, tag: "PTS"}
		case board.KindCustom:
			return tileStyle{border: core.ColorPink, tag: "GIFT"}
		case board.KindSetback, board.KindCount:
		}
	}

	if cfg.Board.HolidayTheme {
		return tileStyle{border: core.ColorGray}
	}
	return tileStyle{border: core.ColorDarkGray}
}

// DrawBoard draws the track onto the screen starting at the top-left corner.
// Each tile shows its 1-based number, its bonus tag and the first pawn on it,
// with a "+N" badge when more pawns share the tile.
func DrawBoard(s *core.Screen, cfg config.Config, snap board.Snapshot) {
	grid := boardGrid(s.Width())

	pawns := make(map[int][]board.Player)
	for _, p := range snap.Players {
		pawns[p.Tile] = append(pawns[p.Tile], p)
	}

	for tile := 0; tile < cfg.Rules.TrackLength; tile++ {
		r := grid.Cell(tile)
		st := styleFor(cfg, snap.Bonuses, tile)
		s.DrawBox(r, st.border)

		s.DrawText(r.X+1, r.Y+1, fmt.Sprintf("%d", tile+1), core.ColorWhite)
		if st.tag != "" {
			tag := []rune(st.tag)
			s.DrawText(r.Right()-1-len(tag), r.Y+1, st.tag, st.border)
		}

		here := pawns[tile]
		if len(here) == 0 {
			continue
		}
		first := here[0]
		s.DrawText(r.X+1, r.Y+2, first.Name, PawnColor(first.Color))
		if len(here) > 1 {
			badge := fmt.Sprintf("+%d", len(here)-1)
			s.DrawText(r.Right()-1-len(badge), r.Y+2, badge, core.ColorRed)
		}
	}
}
