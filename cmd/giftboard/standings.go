package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/storage"
)

var (
	flagGiftersLimit int
	flagRecent       bool
)

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the leaderboard",
	Long: `Print every player in leaderboard order: finishers by place, then
the rest by position and coins.

Examples:
  giftboard standings
  giftboard standings --db ./stream.db`,
	Args: cobra.NoArgs,
	Run:  runStandings,
}

var giftersCmd = &cobra.Command{
	Use:   "gifters",
	Short: "Print the top gifters",
	Long: `Print the players credited with the most coins, from the gift log.

Examples:
  giftboard gifters
  giftboard gifters --limit 3
  giftboard gifters --recent          # Latest gifts instead`,
	Args: cobra.NoArgs,
	Run:  runGifters,
}

func init() {
	giftersCmd.Flags().IntVar(&flagGiftersLimit, "limit", 10, "Number of rows")
	giftersCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest gifts instead of the totals")
}

func runStandings(_ *cobra.Command, _ []string) {
	withBoard(func(game *board.Game, _ *storage.Store) error {
		cfg := game.Config()
		players := game.Standings()

		fmt.Println(cfg.Board.Subtitle)
		fmt.Println()

		if len(players) == 0 {
			fmt.Println("No players yet.")
			fmt.Println()
			fmt.Println("Run 'giftboard gift --simulate' to send a test gift!")
			return nil
		}

		fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "Rank", "Player", "Coins", "Position")
		fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "----", "------", "-----", "--------")
		for i, p := range players {
			position := fmt.Sprintf("Tile %d", p.Tile+1)
			if p.Finished() {
				position = fmt.Sprintf("FINISHED #%d", p.FinishRank)
			}
			fmt.Printf("  %-4d  %-6s  %-10d  %s\n", i+1, p.Name, p.LifetimeCoins, position)
		}

		fmt.Println()
		fmt.Printf("Finishers: %d of %d\n", game.WinCount(), len(players))
		return nil
	})
}

func runGifters(_ *cobra.Command, _ []string) {
	withBoard(func(_ *board.Game, store *storage.Store) error {
		if flagRecent {
			return printRecentGifts(store)
		}

		gifters, err := store.TopGifters(flagGiftersLimit)
		if err != nil {
			return err
		}
		if len(gifters) == 0 {
			fmt.Println("No gifts recorded yet.")
			return nil
		}

		fmt.Printf("  %-4s  %-6s  %-6s  %-10s  %s\n", "Rank", "Player", "Gifts", "Coins", "Last Gift")
		fmt.Printf("  %-4s  %-6s  %-6s  %-10s  %s\n", "----", "------", "-----", "-----", "---------")
		for i, g := range gifters {
			fmt.Printf("  %-4d  %-6s  %-6d  %-10d  %s\n", i+1, g.Player, g.Gifts, g.Coins, g.LastGift.Format("2006-01-02 15:04"))
		}
		return nil
	})
}

func printRecentGifts(store *storage.Store) error {
	events, err := store.RecentGifts(flagGiftersLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No gifts recorded yet.")
		return nil
	}

	for _, e := range events {
		fmt.Printf("  %s  %-16s -> %-4s  %dx %s (%d coins)\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.User, e.Player, e.Count, e.GiftName, e.Coins)
	}
	return nil
}
