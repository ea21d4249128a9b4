package board

import (
	"strings"
	"unicode/utf8"
)

// Palette constants for pawn colors.
const (
	PaletteSize = 8
	GoldColor   = PaletteSize - 1 // Reserved for the gold bonus, never rolled
	nameLength  = 4
)

// Player is a pawn on the track.
type Player struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Tile           int    `json:"tile"`
	Color          int    `json:"color"`
	FinishRank     int    `json:"finish_rank,omitempty"` // 0 while racing
	LifetimeCoins  int    `json:"lifetime_coins"`
	SpendableCoins int    `json:"spendable_coins"`
}

// Finished reports whether the player has reached the final tile.
func (p Player) Finished() bool {
	return p.FinishRank > 0
}

// NormalizeName derives a player name from a source name: the first four
// characters, upper-cased. Surrounding whitespace is ignored.
func NormalizeName(source string) string {
	source = strings.TrimSpace(source)
	if utf8.RuneCountInString(source) > nameLength {
		source = string([]rune(source)[:nameLength])
	}
	return strings.ToUpper(source)
}

// registry holds the players in creation order.
type registry struct {
	players []*Player
}

func (r *registry) add(p *Player) {
	r.players = append(r.players, p)
}

// byID returns the player with the given id, or nil.
func (r *registry) byID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// byName returns the first player with the given normalized name, or nil.
func (r *registry) byName(name string) *Player {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *registry) remove(id string) bool {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return true
		}
	}
	return false
}

func (r *registry) clear() {
	r.players = nil
}

// list returns copies of all players in creation order.
func (r *registry) list() []Player {
	out := make([]Player, len(r.players))
	for i, p := range r.players {
		out[i] = *p
	}
	return out
}
