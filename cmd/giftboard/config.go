package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gift-board/internal/config"
)

var flagConfigDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Load the configuration the way every other command does, validate it
and print it as YAML.

Config search order:
  --config <path>, ~/.giftboard/board.yaml, ./configs/board.yaml, built-in default

Environment overrides:
  GIFTBOARD_STREAMERBOT_HOST, GIFTBOARD_STREAMERBOT_PORT, GIFTBOARD_DB, GIFTBOARD_LOG_LEVEL

Examples:
  giftboard config
  giftboard config --default > ~/.giftboard/board.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in default with comments")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagConfigDefault {
		fmt.Print(string(config.DefaultYAML()))
		return
	}

	cfg := loadConfig()
	data, err := config.Marshal(cfg)
	if err != nil {
		fail("encoding config: %v", err)
	}
	fmt.Print(string(data))
}
