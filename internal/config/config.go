// Package config provides YAML-based configuration loading and
// difficulty presets for the game.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/sleepwalk/internal/game"
)

// GameConfig contains all tunable settings.
type GameConfig struct {
	Rules       RulesConfig       `yaml:"rules"`
	Timing      TimingConfig      `yaml:"timing"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Storage     StorageConfig     `yaml:"storage"`
}

// RulesConfig defines the engine rule constants.
type RulesConfig struct {
	PowerupDuration time.Duration `yaml:"powerup_duration"`
	MagnetRadius    int           `yaml:"magnet_radius"`
	DreamBonus      time.Duration `yaml:"dream_bonus"`
	MinFinalTime    time.Duration `yaml:"min_final_time"`
}

// TimingConfig defines scheduler and UI timings.
type TimingConfig struct {
	TickPeriod     time.Duration `yaml:"tick_period"`
	MoveCooldown   time.Duration `yaml:"move_cooldown"`
	NoticeDuration time.Duration `yaml:"notice_duration"`
	SleepDelay     time.Duration `yaml:"sleep_delay"`
}

// LeaderboardConfig defines leaderboard parameters.
type LeaderboardConfig struct {
	Size int `yaml:"size"`
}

// StorageConfig defines where records are persisted.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// GameRules converts the rules section into engine rules.
func (c GameConfig) GameRules() game.Rules {
	return game.Rules{
		PowerupDuration: c.Rules.PowerupDuration,
		MagnetRadius:    c.Rules.MagnetRadius,
		DreamBonus:      c.Rules.DreamBonus,
		MinFinalTime:    c.Rules.MinFinalTime,
	}
}

// Validate rejects settings the engine or controller cannot run with.
func (c GameConfig) Validate() error {
	switch {
	case c.Rules.PowerupDuration <= 0:
		return fmt.Errorf("config: rules.powerup_duration must be positive, got %v", c.Rules.PowerupDuration)
	case c.Rules.MagnetRadius < 0:
		return fmt.Errorf("config: rules.magnet_radius must not be negative, got %d", c.Rules.MagnetRadius)
	case c.Rules.DreamBonus < 0:
		return fmt.Errorf("config: rules.dream_bonus must not be negative, got %v", c.Rules.DreamBonus)
	case c.Rules.MinFinalTime <= 0:
		return fmt.Errorf("config: rules.min_final_time must be positive, got %v", c.Rules.MinFinalTime)
	case c.Timing.TickPeriod <= 0:
		return fmt.Errorf("config: timing.tick_period must be positive, got %v", c.Timing.TickPeriod)
	case c.Timing.MoveCooldown < 0:
		return fmt.Errorf("config: timing.move_cooldown must not be negative, got %v", c.Timing.MoveCooldown)
	case c.Timing.NoticeDuration <= 0:
		return fmt.Errorf("config: timing.notice_duration must be positive, got %v", c.Timing.NoticeDuration)
	case c.Timing.SleepDelay < 0:
		return fmt.Errorf("config: timing.sleep_delay must not be negative, got %v", c.Timing.SleepDelay)
	case c.Leaderboard.Size <= 0:
		return fmt.Errorf("config: leaderboard.size must be positive, got %d", c.Leaderboard.Size)
	}
	return nil
}
