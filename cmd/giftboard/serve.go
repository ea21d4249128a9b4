package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gift-board/internal/live"
	"github.com/vovakirdan/gift-board/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagNoFeed      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gift feed headless with SSH viewers",
	Long: `Connect to Streamer.bot and apply every TikTok gift to the board.

The board is saved after every change. Anyone can watch it read-only over SSH;
use 'giftboard board' on the streaming machine to drive it from the keyboard.
Send SIGHUP to reload the configuration.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.giftboard/host_key

Examples:
  giftboard serve                     # Feed from config, viewers on :23234
  giftboard serve --ssh :2222         # Viewers on port 2222
  giftboard serve --ssh ""            # No SSH viewers
  giftboard serve --no-feed           # Viewers only, no gift feed

Viewers connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH viewer address (host:port), empty to disable")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 120, "Idle timeout in minutes before disconnecting viewers")
	serveCmd.Flags().BoolVar(&flagNoFeed, "no-feed", false, "Do not connect to Streamer.bot")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, cfg)

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
	if !flagNoFeed {
		runFeed(ctx, cfg, coord, logger)
	}

	if flagSSHAddr == "" {
		fmt.Println("Gift board running without viewers. Press Ctrl+C to stop")
		<-ctx.Done()
		return
	}

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	server, err := tui.NewSSHServer(sshCfg, coord, logger.WithPrefix("ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		return
	}

	fmt.Printf("Gift board viewers on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
