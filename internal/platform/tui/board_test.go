package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/game"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

const boardYAML = `
name: Board
theme: forest
layout:
  - "########"
  - "#S.P.ZB#"
  - "########"
doors: [{x: 4, y: 1, color: red}]
keys: [{x: 2, y: 1, color: red}]
enemies: [{kind: boss, max_health: 2, path: [[5, 1]]}]
powerups: [{x: 3, y: 1, kind: magnet}]
`

func TestDrawBoard(t *testing.T) {
	lvl, err := level.ParseYAML([]byte(boardYAML))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	sess := game.NewSession(lvl, now)

	s := core.NewScreen(lvl.Width, lvl.Height)
	drawBoard(s, lvl, sess, now)

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, glyphWall},
		{1, 1, glyphPlayer},
		{2, 1, glyphKey},
		{3, 1, 'U'}, // magnet drawn over the pillow
		{4, 1, glyphDoorClosed},
		{5, 1, glyphBoss},
		{6, 1, glyphBed},
	}
	for _, tt := range tests {
		if got := s.Get(tt.x, tt.y); got != tt.want {
			t.Errorf("cell (%d,%d) = %q, expected %q", tt.x, tt.y, got, tt.want)
		}
	}

	// Picking up the key opens the door and removes the key glyph
	next := sess.Clone()
	next.Player = core.P(2, 1)
	next.Keys[0] = true
	next.Doors[0].Open = true
	drawBoard(s, lvl, next, now)
	if got := s.Get(4, 1); got != glyphDoorOpen {
		t.Errorf("open door = %q, expected %q", got, glyphDoorOpen)
	}
	if got := s.Get(2, 1); got != glyphPlayer {
		t.Errorf("player cell = %q, expected %q", got, glyphPlayer)
	}
	if got := s.Get(1, 1); got != floorRune(lvl.Theme) {
		t.Errorf("start cell = %q, expected floor", got)
	}

	if out := RenderScreen(s); !strings.Contains(out, "@") {
		t.Error("RenderScreen() output has no player glyph")
	}
}

func TestHudLinesShowActivePowerups(t *testing.T) {
	lvl, err := level.ParseYAML([]byte(boardYAML))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	sess := game.NewSession(lvl, now)
	sess.Active = append(sess.Active, game.ActivePowerup{Kind: level.PowerupSpeed, Expiry: now.Add(4 * time.Second)})

	lines := hudLines(campaignView(lvl, sess), now.Add(time.Second))
	if len(lines) != 2 {
		t.Fatalf("hudLines() = %d lines, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "Pillows 0/1") || !strings.Contains(lines[0], "Best --") {
		t.Errorf("status line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "speed 3s") {
		t.Errorf("active line = %q, expected speed 3s", lines[1])
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawText(0, 1, "def")

	if got := RenderScreen(s); got != "abc\ndef" {
		t.Errorf("RenderScreen() = %q, expected %q", got, "abc\ndef")
	}

	s.SetColored(1, 0, '#', core.ColorOrange)
	s.SetColored(2, 1, '@', core.ColorBrightYellow)
	lines := strings.Split(RenderScreen(s), "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() has %d lines, expected 2", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 3 {
			t.Errorf("line %d width = %d, expected 3", i, w)
		}
	}
}
