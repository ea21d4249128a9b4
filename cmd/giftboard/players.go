package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/config"
	"github.com/vovakirdan/gift-board/internal/storage"
)

var flagMoveSteps int

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a player",
	Long: `Add a player on the first tile. The name is shortened to four
upper-case letters, the same way gift senders are named.

Examples:
  giftboard add alice`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withBoard(func(game *board.Game, _ *storage.Store) error {
			p, err := game.AddPlayer(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", p.Name, p.ID)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <player>",
	Short: "Remove a player",
	Long: `Remove a player by name or id. With duplicate names the first
player added is removed.

Examples:
  giftboard remove ALIC`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withBoard(func(game *board.Game, _ *storage.Store) error {
			p, ok := findPlayer(game, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", board.ErrPlayerNotFound, args[0])
			}
			if err := game.RemovePlayer(p.ID); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", p.Name)
			return nil
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <player>",
	Short: "Move a player",
	Long: `Move a player by --steps tiles without spending coins. Forward
moves that land on a bonus trigger it; backward moves never do. Moves past
either end of the track are ignored.

Examples:
  giftboard move ALIC
  giftboard move ALIC --steps 3
  giftboard move ALIC --steps -1`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withBoard(func(game *board.Game, _ *storage.Store) error {
			p, ok := findPlayer(game, args[0])
			if !ok {
				return fmt.Errorf("%w: %s", board.ErrPlayerNotFound, args[0])
			}
			if err := game.ManualMove(p.ID, flagMoveSteps); err != nil {
				return err
			}
			p, _ = game.Player(p.ID)
			fmt.Printf("%s is on tile %d\n", p.Name, p.Tile+1)
			if a, ok := game.Alert(); ok {
				fmt.Printf("\n%s\n%s\n", a.Title, a.Message)
			}
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the board",
	Long: `Remove every player, reset the winners and put the bonus tiles
back to the configured layout. Add --gifts to also clear the gift log.

With --forget the saved board is deleted instead, so the next start
builds a new board from the configuration.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		clearGifts, _ := cmd.Flags().GetBool("gifts")
		forget, _ := cmd.Flags().GetBool("forget")
		withBoard(func(game *board.Game, store *storage.Store) error {
			if forget {
				if err := store.DeleteSnapshot(); err != nil {
					return err
				}
			} else if err := game.ResetBoard(); err != nil {
				return err
			}
			if clearGifts {
				if err := store.ClearGifts(); err != nil {
					return err
				}
			}
			fmt.Println("Board reset")
			return nil
		})
	},
}

var randomizeCmd = &cobra.Command{
	Use:   "randomize",
	Short: "Shuffle the bonus tiles",
	Long: `Move every bonus to a different random tile between the start and
the finish. Use --seed for a reproducible layout.`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		withBoard(func(game *board.Game, _ *storage.Store) error {
			if err := game.RandomizeBonusPlacement(); err != nil {
				return err
			}
			printBonuses(game.Config(), game.Bonuses())
			return nil
		})
	},
}

func init() {
	moveCmd.Flags().IntVar(&flagMoveSteps, "steps", 1, "Tiles to move (negative moves back)")
	resetCmd.Flags().Bool("gifts", false, "Also clear the gift log")
	resetCmd.Flags().Bool("forget", false, "Delete the saved board instead of saving an empty one")
}

// withBoard opens the saved board, runs fn and exits on error. Changes are
// saved by the board itself.
func withBoard(fn func(game *board.Game, store *storage.Store) error) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, cfg)

	game, store, err := openBoard(cfg, logger)
	if err != nil {
		fail("opening board: %v", err)
	}

	err = fn(game, store)
	store.Close()
	if err != nil {
		fail("%v", err)
	}
}

// printBonuses lists the bonus tiles in track order.
func printBonuses(cfg config.Config, bonuses []board.Bonus) {
	fmt.Printf("  %-5s  %-7s  %s\n", "Tile", "Kind", "State")
	fmt.Printf("  %-5s  %-7s  %s\n", "----", "----", "-----")
	for tile := 0; tile < cfg.Rules.TrackLength; tile++ {
		for _, b := range bonuses {
			if b.Tile != tile {
				continue
			}
			state := "ready"
			switch {
			case b.Claimed:
				state = "claimed"
			case !board.KindEnabled(cfg, b.Kind):
				state = "disabled"
			}
			fmt.Printf("  %-5d  %-7s  %s\n", b.Tile+1, b.Kind, state)
		}
	}
}
