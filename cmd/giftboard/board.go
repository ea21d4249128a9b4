package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gift-board/internal/live"
	"github.com/vovakirdan/gift-board/internal/platform/tui"
)

var (
	flagLogFile   string
	flagBoardSSH  string
	flagBoardFeed bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Run the operator board",
	Long: `Show the board, the live standings and the latest alert, and apply
gifts from Streamer.bot as they arrive.

Controls:
  Up/Down      - Select a player
  Left/Right   - Move the selected player one tile
  A            - Add a player
  X            - Remove the selected player
  Shift+R      - Reset the board (asks first)
  Z            - Shuffle the bonus tiles
  G            - Send a test gift
  Enter        - Dismiss the alert
  Tab          - Top gifters
  ?            - All keys
  Q/Ctrl+C     - Quit

Logs go to --log-file while the board owns the terminal.

Examples:
  giftboard board
  giftboard board --feed=false
  giftboard board --ssh :23234        # Also serve read-only viewers`,
	Run: runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.giftboard/giftboard.log", "Log file path")
	boardCmd.Flags().StringVar(&flagBoardSSH, "ssh", "", "Also serve read-only viewers on this address (host:port)")
	boardCmd.Flags().BoolVar(&flagBoardFeed, "feed", true, "Connect to Streamer.bot")
}

func runBoard(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	logFile, err := openLogFile(flagLogFile)
	if err != nil {
		fail("opening log file: %v", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg)

	game, store, err := openBoard(cfg, logger)
	if err != nil {
		fail("opening board: %v", err)
	}
	defer store.Close()

	coord := live.NewCoordinator(game, logger.WithPrefix("live"))
	coord.SetGiftRecorder(store)
	coord.Start()
	defer coord.Stop()

	ctx, stop := signalContext()
	defer stop()

	reloadOnHangup(ctx, coord, logger)
	if flagBoardFeed {
		runFeed(ctx, cfg, coord, logger)
	}

	if flagBoardSSH != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = flagBoardSSH
		server, err := tui.NewSSHServer(sshCfg, coord, logger.WithPrefix("ssh"))
		if err != nil {
			logger.Error("could not create SSH server", "error", err)
		} else {
			go func() {
				if err := server.ListenAndServe(ctx); err != nil {
					logger.Error("SSH server stopped", "error", err)
				}
			}()
		}
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.Run(coord, store, width, height); err != nil {
		logger.Error("board exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error running board: %v\n", err)
	}
}
