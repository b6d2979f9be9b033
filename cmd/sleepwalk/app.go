package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
	"github.com/vovakirdan/sleepwalk/internal/config"
	"github.com/vovakirdan/sleepwalk/internal/level"
	"github.com/vovakirdan/sleepwalk/internal/platform/tui"
	"github.com/vovakirdan/sleepwalk/internal/registry"
	"github.com/vovakirdan/sleepwalk/internal/storage"
)

// customPack is the pack ID of a --levels directory.
const customPack = "custom"

// app holds what every command builds from the global flags.
type app struct {
	cfg     config.GameConfig
	logger  *log.Logger
	store   *storage.Store // Nil when records live in memory
	records storage.Provider
	logFile *os.File
}

// setup loads config, logging and storage. Interactive commands own the
// terminal, so without --log-file they log nowhere.
// Storage failures fall back to in-memory records with a warning.
func setup(interactive bool) (*app, error) {
	a := &app{}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, preset)
	a.cfg = cfg

	if err := a.openLogger(interactive); err != nil {
		return nil, err
	}

	dbPath := cfg.Storage.DBPath
	if flagDBPath != "" {
		dbPath = flagDBPath
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		a.logger.Warn("could not open records database, using memory", "path", dbPath, "err", err)
		if interactive && a.logFile == nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open records database: %v\n", err)
		}
		a.records = storage.MemoryProvider(cfg.Leaderboard.Size)
		return a, nil
	}
	a.store = store
	a.records = store.Provider(cfg.Leaderboard.Size)
	return a, nil
}

func (a *app) openLogger(interactive bool) error {
	lvl, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = os.Stderr
	switch {
	case flagLogFile != "":
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		a.logFile = f
		w = f
	case interactive:
		w = io.Discard
	}

	a.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "sleepwalk",
		Level:           lvl,
	})
	return nil
}

// env returns the TUI services, publishing to observer if it is not nil.
func (a *app) env(observer campaign.Observer) tui.Env {
	cfg := a.cfg
	return tui.Env{
		Records:  a.records,
		Config:   &cfg,
		Logger:   a.logger,
		Observer: observer,
	}
}

// Close releases the database and log file.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing records database", "err", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// registerCustomLevels registers dir as the custom pack.
func registerCustomLevels(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("level directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("level directory: %s is not a directory", dir)
	}

	loader := level.NewLoader(dir)
	registry.Register(customPack, "Custom ("+filepath.Base(dir)+")", func() (*level.Catalog, error) {
		return loader.LoadCatalog(customPack)
	})
	return nil
}

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
