package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/live"
)

var (
	flagGiftUser  string
	flagGiftName  string
	flagGiftCount int
	flagGiftCoins int
	flagSimulate  bool
)

var giftCmd = &cobra.Command{
	Use:   "gift",
	Short: "Apply a gift by hand",
	Long: `Apply a gift as if it came from the stream. The viewer's player is
created on first gift. Without --coins every gift counts as one coin.

Run this while no board is open; a running board does not see changes made
from another process until it restarts.

Examples:
  giftboard gift --user Alice123 --name Galaxy --coins 1000
  giftboard gift --user bob --name Rose --count 5
  giftboard gift --simulate             # 1000 coins from a random TEST_n viewer`,
	Run: runGift,
}

func init() {
	giftCmd.Flags().StringVar(&flagGiftUser, "user", "", "Viewer name")
	giftCmd.Flags().StringVar(&flagGiftName, "name", "Gift", "Gift name")
	giftCmd.Flags().IntVar(&flagGiftCount, "count", 1, "Number of gifts")
	giftCmd.Flags().IntVar(&flagGiftCoins, "coins", 0, "Coins per gift (default 1 when not set)")
	giftCmd.Flags().BoolVar(&flagSimulate, "simulate", false, "Send a 1000-coin test gift from a random viewer")
}

func runGift(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, cfg)

	game, store, err := openBoard(cfg, logger)
	if err != nil {
		fail("opening board: %v", err)
	}
	defer store.Close()

	gift := board.Gift{User: flagGiftUser, Name: flagGiftName, Count: flagGiftCount}
	if cmd.Flags().Changed("coins") {
		coins := flagGiftCoins
		gift.Coins = &coins
	}

	var res board.Result
	if flagSimulate {
		res, err = game.SimulateGift()
		gift = board.Gift{User: res.Player.Name, Name: "Galaxy", Count: 1}
	} else {
		res, err = game.ProcessGift(gift)
	}
	if errors.Is(err, board.ErrInvalidGift) {
		store.Close()
		fail("%v", err)
	}

	if recErr := store.RecordGift(live.GiftRecord{
		User:     gift.User,
		Player:   res.Player.Name,
		GiftName: gift.Name,
		Count:    gift.Count,
		Coins:    res.Coins,
	}); recErr != nil {
		logger.Warn("could not record gift", "error", recErr)
	}

	printResult(res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if a, ok := game.Alert(); ok {
		fmt.Printf("\n%s\n%s\n", a.Title, a.Message)
	}
}

// printResult describes what a gift did to its player.
func printResult(res board.Result) {
	p := res.Player
	verb := "credited to"
	if res.Created {
		verb = "created"
	}
	fmt.Printf("%d coins %s %s\n", res.Coins, verb, p.Name)

	switch {
	case p.Finished():
		fmt.Printf("  FINISHED #%d\n", p.FinishRank)
	case res.Moves > 0 && !res.Moved:
		fmt.Printf("  %d moves past the finish discarded, still on tile %d\n", res.Moves, p.Tile+1)
	default:
		fmt.Printf("  Tile %d\n", p.Tile+1)
	}
	fmt.Printf("  Lifetime %d coins, %d toward the next move\n", p.LifetimeCoins, p.SpendableCoins)
}
