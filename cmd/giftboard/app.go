package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gift-board/internal/board"
	"github.com/vovakirdan/gift-board/internal/config"
	"github.com/vovakirdan/gift-board/internal/live"
	"github.com/vovakirdan/gift-board/internal/storage"
	"github.com/vovakirdan/gift-board/internal/streamerbot"
)

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the board configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("loading config: %v", err)
	}
	return cfg
}

// newLogger builds the process logger. The --log-level flag wins over the config.
func newLogger(w io.Writer, cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "giftboard",
	})

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			logger.Warn("unknown log level, using info", "level", level)
			lvl = log.InfoLevel
		}
		logger.SetLevel(lvl)
	}
	return logger
}

// openLogFile opens the log file used while the terminal is owned by the board.
func openLogFile(path string) (*os.File, error) {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// openBoard opens the store and restores the last saved board. Every later
// change is written back to the store.
func openBoard(cfg config.Config, logger *log.Logger) (*board.Game, *storage.Store, error) {
	dbPath := cfg.Storage.Path
	if flagDBPath != "" {
		dbPath = flagDBPath
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	store := db
	if flagBoardID != "" {
		store = db.ForBoard(flagBoardID)
	}

	opts := []board.Option{
		board.WithPersister(store),
		board.WithLogger(logger.WithPrefix("board")),
	}
	if flagSeed != 0 {
		opts = append(opts, board.WithSeed(flagSeed))
	}

	game, err := board.New(cfg, opts...)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	snap, err := store.LoadSnapshot()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if snap != nil {
		if err := game.Restore(*snap); err != nil {
			logger.Warn("saved board does not fit the config, starting fresh", "error", err)
		} else {
			logger.Debug("board restored", "players", len(snap.Players), "bonuses", len(snap.Bonuses))
		}
	}

	return game, store, nil
}

// findPlayer resolves a player by id or by name. Names are normalized the
// same way gifts are, and the first match wins.
func findPlayer(game *board.Game, ref string) (board.Player, bool) {
	if p, ok := game.Player(ref); ok {
		return p, true
	}
	name := board.NormalizeName(ref)
	for _, p := range game.Players() {
		if p.Name == name {
			return p, true
		}
	}
	return board.Player{}, false
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runFeed connects to Streamer.bot and forwards gifts to the coordinator
// until ctx is cancelled. There is no reconnect: a lost connection is logged
// and the feed stays down.
func runFeed(ctx context.Context, cfg config.Config, coord *live.Coordinator, logger *log.Logger) {
	client := streamerbot.NewClient(cfg.StreamerBot.URL(),
		streamerbot.WithLogger(logger.WithPrefix("streamerbot")),
		streamerbot.WithStatusHandler(coord.SetFeedStatus),
	)
	go func() {
		if err := client.Run(ctx, coord.HandleGift); err != nil {
			logger.Error("gift feed stopped", "url", client.URL(), "error", err)
			coord.SetFeedStatus(false)
		}
	}()
}

// reloadOnHangup re-reads the configuration on SIGHUP and applies it.
func reloadOnHangup(ctx context.Context, coord *live.Coordinator, logger *log.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		defer signal.Stop(hup)
		for {
			select {
			case <-hup:
				cfg, err := config.Load(flagConfig)
				if err != nil {
					logger.Error("config reload failed", "error", err)
					continue
				}
				if err := coord.Do(ctx, live.ApplyConfigCmd{Config: cfg}); err != nil {
					logger.Error("config rejected", "error", err)
					continue
				}
				logger.Info("config reloaded")
			case <-ctx.Done():
				return
			}
		}
	}()
}
