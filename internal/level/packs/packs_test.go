package packs

import (
	"testing"

	"github.com/vovakirdan/sleepwalk/internal/level"
	"github.com/vovakirdan/sleepwalk/internal/registry"
)

func TestBuiltinPacksLoad(t *testing.T) {
	tests := []struct {
		id     string
		levels int
	}{
		{Classic, 5},
		{Tutorial, 2},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			cat, err := registry.Load(tc.id)
			if err != nil {
				t.Fatalf("Load(%q) failed: %v", tc.id, err)
			}
			if cat.Len() != tc.levels {
				t.Errorf("levels = %d, expected %d", cat.Len(), tc.levels)
			}
			for i := 0; i < cat.Len(); i++ {
				l := cat.Level(i)
				if l.Name == "" {
					t.Errorf("level %d has no name", i)
				}
				if len(l.Pillows) == 0 {
					t.Errorf("level %q has no pillows", l.Name)
				}
			}
		})
	}
}

func TestClassicPackCoversEveryTheme(t *testing.T) {
	cat, err := registry.Load(Classic)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	seen := make(map[level.Theme]bool)
	for i := 0; i < cat.Len(); i++ {
		seen[cat.Level(i).Theme] = true
	}
	for _, th := range []level.Theme{level.ThemeForest, level.ThemeIce, level.ThemeUnderwater, level.ThemeVolcano, level.ThemeSpace} {
		if !seen[th] {
			t.Errorf("no classic level uses theme %q", th)
		}
	}
}
