package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/board.yaml
var defaultBoardYAML []byte

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultBoardYAML, &cfg); err != nil {
		return DefaultConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// DefaultConfig returns the hardcoded default configuration.
// It matches defaults/board.yaml.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Title:        "Live\nGame Board",
			Subtitle:     "🎁 1k Gift = 1 Move Forward",
			HolidayTheme: true,
		},
		Rules: RulesConfig{
			TrackLength: 30,
			CostPerMove: 1000,
		},
		Bonuses: BonusConfig{
			Trap:   true,
			Spin:   true,
			Shirt:  true,
			Gold:   true,
			Points: true,
			Layout: []LayoutEntry{
				{Kind: "trap", Tile: 6},
				{Kind: "spin", Tile: 11},
				{Kind: "shirt", Tile: 17},
				{Kind: "gold", Tile: 19},
				{Kind: "points", Tile: 24},
				{Kind: "points", Tile: 8},
			},
		},
		CustomTile: CustomTile{
			Enabled: false,
			Index:   14,
			Title:   "MYSTERY BOX!",
			Message: "You found the secret stash!",
		},
		StreamerBot: StreamerBotConfig{
			Host: "192.168.1.5",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "~/.giftboard/board.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBoardYAML
}
