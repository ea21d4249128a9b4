// Package config provides YAML-based configuration loading for the gift board.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete gift board configuration.
// The engine treats it as an immutable value; changes are applied by passing
// a new Config to the game.
type Config struct {
	Board       BoardConfig       `yaml:"board"`
	Rules       RulesConfig       `yaml:"rules"`
	Bonuses     BonusConfig       `yaml:"bonuses"`
	CustomTile  CustomTile        `yaml:"custom_tile"`
	StreamerBot StreamerBotConfig `yaml:"streamerbot"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
}

// BoardConfig holds presentation settings shown in the board header.
type BoardConfig struct {
	Title        string `yaml:"title"`
	Subtitle     string `yaml:"subtitle"`
	HolidayTheme bool   `yaml:"holiday_theme"`
}

// RulesConfig holds the track and currency rules.
type RulesConfig struct {
	TrackLength int `yaml:"track_length"`
	CostPerMove int `yaml:"cost_per_move"` // Coins consumed per tile of movement
}

// BonusConfig holds per-kind enable flags and the default layout.
// A disabled kind stays on the board but is inert.
type BonusConfig struct {
	Trap   bool          `yaml:"trap"`
	Spin   bool          `yaml:"spin"`
	Shirt  bool          `yaml:"shirt"`
	Gold   bool          `yaml:"gold"`
	Points bool          `yaml:"points"`
	Layout []LayoutEntry `yaml:"layout"`
}

// LayoutEntry places one default bonus on the track.
type LayoutEntry struct {
	Kind string `yaml:"kind"` // trap, points, spin, shirt, gold
	Tile int    `yaml:"tile"` // 0-based
}

// CustomTile configures the single operator-defined bonus.
type CustomTile struct {
	Enabled bool   `yaml:"enabled"`
	Index   int    `yaml:"index"` // 0-based
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// StreamerBotConfig locates the Streamer.bot websocket server.
type StreamerBotConfig struct {
	Host string `yaml:"host" env:"GIFTBOARD_STREAMERBOT_HOST"`
	Port int    `yaml:"port" env:"GIFTBOARD_STREAMERBOT_PORT"`
}

// URL returns the websocket URL of the Streamer.bot server.
func (c StreamerBotConfig) URL() string {
	return fmt.Sprintf("ws://%s:%d/", c.Host, c.Port)
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path" env:"GIFTBOARD_DB"`
}

// LogConfig sets the log level: debug, info, warn, error.
type LogConfig struct {
	Level string `yaml:"level" env:"GIFTBOARD_LOG_LEVEL"`
}

// LayoutKinds lists the bonus kinds allowed in bonuses.layout.
var LayoutKinds = []string{"trap", "points", "spin", "shirt", "gold"}

// MinTrackLength is the shortest track that has at least one interior tile.
const MinTrackLength = 3

// Validate checks the rules, layout and custom tile against each other.
// Relocation needs a free interior tile even when every bonus is unclaimed,
// so the number of bonuses is capped below the interior tile count.
func (c Config) Validate() error {
	if c.Rules.TrackLength < MinTrackLength {
		return fmt.Errorf("%w: track_length %d is below %d", ErrInvalidConfig, c.Rules.TrackLength, MinTrackLength)
	}
	if c.Rules.CostPerMove <= 0 {
		return fmt.Errorf("%w: cost_per_move must be positive, got %d", ErrInvalidConfig, c.Rules.CostPerMove)
	}

	interior := c.Rules.TrackLength - 2
	for i, e := range c.Bonuses.Layout {
		if !isLayoutKind(e.Kind) {
			return fmt.Errorf("%w: layout[%d]: unknown kind %q (want one of %s)",
				ErrInvalidConfig, i, e.Kind, strings.Join(LayoutKinds, ", "))
		}
		if e.Tile < 1 || e.Tile > c.Rules.TrackLength-2 {
			return fmt.Errorf("%w: layout[%d]: tile %d outside [1, %d]",
				ErrInvalidConfig, i, e.Tile, c.Rules.TrackLength-2)
		}
	}

	// One slot is reserved for the custom tile whether or not it is enabled.
	if total := len(c.Bonuses.Layout) + 1; total >= interior {
		return fmt.Errorf("%w: %d bonuses leave no free tile on a track with %d interior tiles",
			ErrInvalidConfig, total, interior)
	}

	if c.CustomTile.Enabled {
		if c.CustomTile.Index < 0 || c.CustomTile.Index >= c.Rules.TrackLength {
			return fmt.Errorf("%w: custom_tile.index %d outside [0, %d)",
				ErrInvalidConfig, c.CustomTile.Index, c.Rules.TrackLength)
		}
	}

	if c.StreamerBot.Port < 0 || c.StreamerBot.Port > 65535 {
		return fmt.Errorf("%w: streamerbot.port %d out of range", ErrInvalidConfig, c.StreamerBot.Port)
	}

	return nil
}

func isLayoutKind(kind string) bool {
	for _, k := range LayoutKinds {
		if k == kind {
			return true
		}
	}
	return false
}
