// giftboard is a livestream gift board for the terminal: TikTok gifts relayed
// by Streamer.bot move viewer pawns along a track with bonus tiles.
//
// Usage:
//
//	giftboard board             - Run the operator board with the gift feed
//	giftboard serve             - Run headless with the feed and SSH viewers
//	giftboard gift              - Apply a gift by hand
//	giftboard add <name>        - Add a player
//	giftboard move <player>     - Move a player
//	giftboard standings         - Print the leaderboard
//	giftboard gifters           - Print the top gifters
//	giftboard config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Board configuration YAML
//	--db <path>         - Database path (default: storage.path from the config)
//	--board <id>        - Board id inside the database
//	--seed <value>      - RNG seed for reproducible bonus placement
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gift-board/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagBoardID  string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "giftboard",
	Short: "Gift Board - a livestream board game driven by gifts",
	Long: `Gift Board turns livestream gifts into moves on a board game.

Every gift is converted to coins; every 1000 coins (configurable) moves the
viewer's pawn one tile forward. Bonus tiles hand out prizes and the first
players to reach the final tile win.

Available commands:
  board      - Operator board with live standings and keyboard controls
  serve      - Headless gift feed with read-only SSH viewers
  gift       - Apply a gift by hand (or a random test gift)
  add        - Add a player
  remove     - Remove a player
  move       - Move a player
  reset      - Clear the board
  randomize  - Shuffle the bonus tiles
  standings  - Print the leaderboard
  gifters    - Print the top gifters
  config     - Print the effective configuration

Examples:
  giftboard board
  giftboard serve --ssh :2222
  giftboard gift --user Alice123 --coins 1000
  giftboard standings`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to board config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to board database (default: storage.path from config)")
	rootCmd.PersistentFlags().StringVar(&flagBoardID, "board", storage.DefaultBoardID, "Board id inside the database, one per stream")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: log.level from config)")

	// Add subcommands
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(giftCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(randomizeCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(giftersCmd)
	rootCmd.AddCommand(configCmd)
}
