package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultGameYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultGameConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultGameConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadCustomPathLayersOverDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.yaml")
	data := "timing:\n  tick_period: 400ms\nleaderboard:\n  size: 5\n"
	if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timing.TickPeriod != 400*time.Millisecond {
		t.Errorf("tick period = %v, expected 400ms", cfg.Timing.TickPeriod)
	}
	if cfg.Leaderboard.Size != 5 {
		t.Errorf("leaderboard size = %d, expected 5", cfg.Leaderboard.Size)
	}
	if cfg.Rules.MagnetRadius != 3 {
		t.Errorf("unset keys should keep defaults, magnet radius = %d", cfg.Rules.MagnetRadius)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("timing: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("timing:\n  tick_period: 0s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "tick_period") {
		t.Errorf("expected tick_period validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *GameConfig)
	}{
		{"zero powerup duration", func(c *GameConfig) { c.Rules.PowerupDuration = 0 }},
		{"negative radius", func(c *GameConfig) { c.Rules.MagnetRadius = -1 }},
		{"zero floor", func(c *GameConfig) { c.Rules.MinFinalTime = 0 }},
		{"zero tick", func(c *GameConfig) { c.Timing.TickPeriod = 0 }},
		{"negative cooldown", func(c *GameConfig) { c.Timing.MoveCooldown = -time.Millisecond }},
		{"zero notice", func(c *GameConfig) { c.Timing.NoticeDuration = 0 }},
		{"empty leaderboard", func(c *GameConfig) { c.Leaderboard.Size = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGameConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGameRules(t *testing.T) {
	r := DefaultGameConfig().GameRules()
	if r.PowerupDuration != 10*time.Second || r.MagnetRadius != 3 || r.DreamBonus != time.Second || r.MinFinalTime != time.Second {
		t.Errorf("GameRules() = %+v", r)
	}
}

func TestDifficultyPresets(t *testing.T) {
	tests := []struct {
		input    string
		preset   DifficultyPreset
		tick     time.Duration
		powerups time.Duration
	}{
		{"", DifficultyNormal, 800 * time.Millisecond, 10 * time.Second},
		{"Easy", DifficultyEasy, 1000 * time.Millisecond, 15 * time.Second},
		{"hard", DifficultyHard, 600 * time.Millisecond, 7 * time.Second},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			p, err := ParseDifficulty(tc.input)
			if err != nil {
				t.Fatalf("ParseDifficulty(%q) failed: %v", tc.input, err)
			}
			if p != tc.preset {
				t.Errorf("preset = %s, expected %s", p, tc.preset)
			}

			cfg := DefaultGameConfig()
			ApplyPreset(&cfg, p)
			if cfg.Timing.TickPeriod != tc.tick {
				t.Errorf("tick = %v, expected %v", cfg.Timing.TickPeriod, tc.tick)
			}
			if cfg.Rules.PowerupDuration != tc.powerups {
				t.Errorf("powerup duration = %v, expected %v", cfg.Rules.PowerupDuration, tc.powerups)
			}
		})
	}

	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}
