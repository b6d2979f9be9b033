package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a level from an interactive menu",
	Long: `Start sleepwalk in interactive menu mode.

Every level of every pack is listed with its best time.
Leaving a level returns you to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play level
  Tab          - Leaderboard
  Q            - Quit

Examples:
  sleepwalk menu
  sleepwalk menu --name ada
  sleepwalk menu --db ./records.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagName, "name", "", "Player name for the leaderboard")
	menuCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a websocket spectator feed on this address")
}

func runMenu(_ *cobra.Command, _ []string) {
	a, err := setup(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env := a.env(startSpectator(ctx, a, flagSpectate))

	cfg := core.DefaultConfig()
	cfg.PlayerName = flagName

	// Get terminal size
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(a.records, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep size changes and the selected level
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(a.records, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		goBack, runErr := tui.Run(env, cfg)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
			continue
		}
		if !goBack {
			break
		}
	}
}
