package board

import (
	"fmt"

	"github.com/vovakirdan/gift-board/internal/config"
)

// BonusKind identifies the effect of a bonus tile.
type BonusKind int

const (
	KindSetback  BonusKind = iota // Knocks the player back one tile, then moves elsewhere
	KindRelocate                  // Rewards the player, then moves elsewhere
	KindSpin                      // One-shot wheel spin
	KindShirt                     // One-shot name-on-shirt prize
	KindGold                      // One-shot gold pawn
	KindCustom                    // One-shot operator-defined prize
	KindCount                     // Sentinel for counting kinds
)

// String returns the configuration tag of the kind.
func (k BonusKind) String() string {
	switch k {
	case KindSetback:
		return "trap"
	case KindRelocate:
		return "points"
	case KindSpin:
		return "spin"
	case KindShirt:
		return "shirt"
	case KindGold:
		return "gold"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Recurring reports whether the bonus relocates instead of being claimed.
func (k BonusKind) Recurring() bool {
	switch k {
	case KindSetback, KindRelocate:
		return true
	case KindSpin, KindShirt, KindGold, KindCustom:
		return false
	default:
		return false
	}
}

// ParseKind converts a configuration tag to a BonusKind.
func ParseKind(tag string) (BonusKind, error) {
	for k := BonusKind(0); k < KindCount; k++ {
		if k.String() == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("board: unknown bonus kind %q", tag)
}

// MarshalText implements encoding.TextMarshaler.
func (k BonusKind) MarshalText() ([]byte, error) {
	if k < 0 || k >= KindCount {
		return nil, fmt.Errorf("board: cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BonusKind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// KindEnabled reports whether the configuration enables bonuses of the kind.
// A disabled bonus stays on the board but is inert.
func KindEnabled(cfg config.Config, k BonusKind) bool {
	switch k {
	case KindSetback:
		return cfg.Bonuses.Trap
	case KindRelocate:
		return cfg.Bonuses.Points
	case KindSpin:
		return cfg.Bonuses.Spin
	case KindShirt:
		return cfg.Bonuses.Shirt
	case KindGold:
		return cfg.Bonuses.Gold
	case KindCustom:
		return cfg.CustomTile.Enabled
	default:
		return false
	}
}
