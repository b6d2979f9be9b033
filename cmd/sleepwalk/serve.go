package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sleepwalk/internal/platform/tui"
	"github.com/vovakirdan/sleepwalk/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagServePack   string
	flagIdleTimeout int
	flagServeFeed   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sleepwalk SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a level picker menu.
The SSH user name is the leaderboard name. Records are stored
per-server, so all users share the same leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.sleepwalk/host_key

Examples:
  sleepwalk serve                           # Listen on :23235 with auto-generated key
  sleepwalk serve --ssh :2222               # Listen on port 2222
  sleepwalk serve --host-key ./my_host_key  # Use specific host key
  sleepwalk serve --spectate :8080          # Also serve the spectator feed

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServePack, "pack", defaults.Pack, "Pack preselected in the menu")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeFeed, "spectate", "", "Serve a websocket spectator feed on this address")
}

func runServe(_ *cobra.Command, _ []string) {
	if !registry.Exists(flagServePack) {
		fmt.Fprintf(os.Stderr, "Error: unknown pack %q\n", flagServePack)
		os.Exit(1)
	}

	a, err := setup(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env := a.env(startSpectator(ctx, a, flagServeFeed))

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: expandHome(flagHostKey),
		Pack:        flagServePack,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting sleepwalk SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
