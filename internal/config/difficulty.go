package config

import (
	"fmt"
	"strings"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty parses a difficulty string. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "medium":
		return DifficultyNormal, nil
	case "easy":
		return DifficultyEasy, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (use easy, normal or hard)", s)
	}
}

// ApplyPreset scales hazard speed and powerup lifetime for a preset.
// Normal leaves the config untouched.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Timing.TickPeriod = scale(cfg.Timing.TickPeriod, 5, 4)
		cfg.Rules.PowerupDuration = scale(cfg.Rules.PowerupDuration, 3, 2)
	case DifficultyHard:
		cfg.Timing.TickPeriod = scale(cfg.Timing.TickPeriod, 3, 4)
		cfg.Rules.PowerupDuration = scale(cfg.Rules.PowerupDuration, 7, 10)
	}
}

func scale(d time.Duration, num, den int64) time.Duration {
	return d * time.Duration(num) / time.Duration(den)
}
