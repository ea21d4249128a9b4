package board

import (
	"cmp"
	"slices"
)

// Standings returns the players in leaderboard order without modifying the input:
// finishers first by rank, then racers furthest along, ties broken by lifetime
// coins. Name and ID settle any remaining tie so the order is total.
func Standings(players []Player) []Player {
	out := slices.Clone(players)
	slices.SortStableFunc(out, compareStanding)
	return out
}

func compareStanding(a, b Player) int {
	switch {
	case a.Finished() && b.Finished():
		if c := cmp.Compare(a.FinishRank, b.FinishRank); c != 0 {
			return c
		}
	case a.Finished():
		return -1
	case b.Finished():
		return 1
	default:
		if c := cmp.Compare(b.Tile, a.Tile); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(b.LifetimeCoins, a.LifetimeCoins); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
