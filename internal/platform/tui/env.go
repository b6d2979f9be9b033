package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
	"github.com/vovakirdan/sleepwalk/internal/config"
	"github.com/vovakirdan/sleepwalk/internal/registry"
	"github.com/vovakirdan/sleepwalk/internal/storage"
)

// Env carries the shared services every screen needs. One Env may serve
// many concurrent players, as the SSH server does.
type Env struct {
	Records  storage.Provider   // Per-pack stores; nil disables records
	Config   *config.GameConfig // Nil uses the defaults
	Logger   *log.Logger        // Nil discards
	Observer campaign.Observer  // Optional spectator feed
	Now      func() time.Time   // Nil uses time.Now
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

func (e Env) records(pack string) storage.Records {
	if e.Records == nil {
		return nil
	}
	return e.Records(pack)
}

// NewController loads pack and starts a controller at level start.
// The caller owns the controller and must Close it.
func (e Env) NewController(pack string, start int, player string) (*campaign.Controller, error) {
	cat, err := registry.Load(pack)
	if err != nil {
		return nil, err
	}

	opts := campaign.Options{
		Observer:   e.Observer,
		Logger:     e.logger().With("pack", pack),
		Config:     e.Config,
		PlayerName: player,
	}
	if rec := e.records(pack); rec != nil {
		opts.BestTimes = rec
		opts.Leaderboard = rec
		opts.Attempts = rec
	}

	ctrl, err := campaign.New(cat, opts)
	if err != nil {
		return nil, fmt.Errorf("tui: creating controller: %w", err)
	}
	if err := ctrl.Start(start, e.now()); err != nil {
		ctrl.Close()
		return nil, err
	}
	return ctrl, nil
}
