// sleepwalk is a tile-based dream puzzle game for the terminal.
//
// Usage:
//
//	sleepwalk list              - List level packs and their levels
//	sleepwalk play              - Play a pack from a level
//	sleepwalk menu              - Pick a level interactively
//	sleepwalk scores [pack]     - Show the leaderboard and best times
//	sleepwalk serve             - Start SSH server for remote play
//	sleepwalk validate <dir>    - Check a directory of level files
//
// Global flags:
//
//	--db <path>           - Database path (default from config: ~/.sleepwalk/sleepwalk.db)
//	--config <path>       - Game config YAML
//	--difficulty <preset> - easy, normal or hard
//	--levels <dir>        - Register a level directory as the "custom" pack
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import packs to register them
	_ "github.com/vovakirdan/sleepwalk/internal/level/packs"
)

var (
	// Global flags
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevels     string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sleepwalk",
	Short: "Sleepwalk - guide a sleepwalker back to bed",
	Long: `Sleepwalk is a tile-based puzzle game for the terminal. Collect every
pillow, dodge the nightmares, and get back to bed as fast as you can.

Available commands:
  list      - Show level packs and levels
  play      - Play a pack directly
  menu      - Interactive level picker
  scores    - View the leaderboard and best times
  serve     - Start SSH server for remote play
  validate  - Check a directory of level files

Examples:
  sleepwalk list
  sleepwalk play --pack classic --level 3
  sleepwalk menu
  sleepwalk serve --ssh :23235
  sleepwalk scores classic`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return registerCustomLevels(flagLevels)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to records database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory of level files to play as the \"custom\" pack")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
}
