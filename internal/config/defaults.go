package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/sleepwalk.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the built-in configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Rules: RulesConfig{
			PowerupDuration: 10 * time.Second,
			MagnetRadius:    3,
			DreamBonus:      time.Second,
			MinFinalTime:    time.Second,
		},
		Timing: TimingConfig{
			TickPeriod:     800 * time.Millisecond,
			MoveCooldown:   120 * time.Millisecond,
			NoticeDuration: 2 * time.Second,
			SleepDelay:     1500 * time.Millisecond,
		},
		Leaderboard: LeaderboardConfig{
			Size: 10,
		},
		Storage: StorageConfig{
			DBPath: "~/.sleepwalk/sleepwalk.db",
		},
	}
}
