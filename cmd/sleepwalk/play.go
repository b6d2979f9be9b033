package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/platform/spectate"
	"github.com/vovakirdan/sleepwalk/internal/platform/tui"
	"github.com/vovakirdan/sleepwalk/internal/registry"
)

var (
	flagPack     string
	flagLevel    int
	flagName     string
	flagSpectate string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a level pack",
	Long: `Start playing a level pack, beginning at the given level.

Collect every pillow, then walk into the bed. Dreams are optional.
Touching a nightmare wakes you up and the level restarts.

Controls:
  Arrows/WASD  - Move
  R            - Restart level
  Enter/Space  - Continue
  Tab          - Leaderboard
  Esc/Q        - Quit

Examples:
  sleepwalk play
  sleepwalk play --pack tutorial
  sleepwalk play --pack classic --level 3 --name ada
  sleepwalk play --difficulty hard
  sleepwalk play --levels ./my-levels --pack custom
  sleepwalk play --spectate :8080`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPack, "pack", "classic", "Level pack to play")
	playCmd.Flags().IntVar(&flagLevel, "level", 1, "Level number to start at (1-based)")
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name for the leaderboard")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a websocket spectator feed on this address")
}

func runPlay(_ *cobra.Command, _ []string) {
	// Check if pack exists
	if !registry.Exists(flagPack) {
		fmt.Fprintf(os.Stderr, "Error: unknown pack %q\n", flagPack)
		fmt.Fprintln(os.Stderr, "Run 'sleepwalk list' to see available packs.")
		os.Exit(1)
	}
	catalog, err := registry.Load(flagPack)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading pack: %v\n", err)
		os.Exit(1)
	}
	if flagLevel < 1 || flagLevel > catalog.Len() {
		fmt.Fprintf(os.Stderr, "Error: level %d out of range 1-%d\n", flagLevel, catalog.Len())
		os.Exit(1)
	}

	a, err := setup(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	observer := startSpectator(ctx, a, flagSpectate)

	cfg := core.DefaultConfig()
	cfg.Pack = flagPack
	cfg.StartLevel = flagLevel - 1
	cfg.PlayerName = flagName

	// Get terminal size
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	_, runErr := tui.Run(a.env(observer), cfg)

	// Stop the feed and close the store before potential exit
	cancel()
	a.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// startSpectator serves a spectator feed on addr until ctx is done.
// It returns nil when addr is empty.
func startSpectator(ctx context.Context, a *app, addr string) campaign.Observer {
	if addr == "" {
		return nil
	}

	hub := spectate.NewHub(a.logger.WithPrefix("spectate"))
	go hub.Run(ctx)
	go func() {
		if err := hub.ListenAndServe(ctx, addr); err != nil {
			a.logger.Error("spectator feed stopped", "address", addr, "err", err)
		}
	}()
	return hub
}
