// Package level defines the static, immutable level catalog: geometry, items,
// doors and keys, hazards, powerups and platforms. Levels are loaded from YAML,
// validated once at load time, and then shared read-only by every session.
package level

import (
	"github.com/vovakirdan/sleepwalk/internal/core"
)

// Theme is the cosmetic setting of a level. No rule depends on it.
type Theme string

const (
	ThemeForest     Theme = "forest"
	ThemeIce        Theme = "ice"
	ThemeUnderwater Theme = "underwater"
	ThemeVolcano    Theme = "volcano"
	ThemeSpace      Theme = "space"
)

// EnemyKind distinguishes regular hazards from bosses.
type EnemyKind string

const (
	EnemyNormal EnemyKind = "normal"
	EnemyBoss   EnemyKind = "boss"
)

// PowerupKind identifies the effect of a powerup pickup.
type PowerupKind string

const (
	PowerupSpeed      PowerupKind = "speed"
	PowerupInvincible PowerupKind = "invincible"
	PowerupTime       PowerupKind = "time"
	PowerupMagnet     PowerupKind = "magnet"
)

// Door is a tile that blocks movement until a key of the same color is collected.
type Door struct {
	Pos   core.Pos
	Color string
}

// Key opens every door of its color when picked up.
type Key struct {
	Pos   core.Pos
	Color string
}

// Enemy is a hazard that walks a cyclic patrol path.
type Enemy struct {
	Start     core.Pos
	Path      []core.Pos // At least one entry; length 1 means stationary
	Kind      EnemyKind
	MaxHealth int // Boss only; no rule consumes it yet
}

// Powerup is a timed buff lying on a tile.
type Powerup struct {
	Pos  core.Pos
	Kind PowerupKind
}

// Platform is a moving platform. Platforms advance on every tick but do not
// block or carry the player.
type Platform struct {
	ID   string
	Path []core.Pos
}

// Level is one static puzzle map. Every slice is ordered and index identity is
// stable, so sessions refer to items by their index.
type Level struct {
	Name   string
	Theme  Theme
	Width  int
	Height int
	Start  core.Pos
	Bed    core.Pos

	Walls     map[core.Pos]bool
	Pillows   []core.Pos
	Dreams    []core.Pos
	Doors     []Door
	Keys      []Key
	Enemies   []Enemy
	Powerups  []Powerup
	Platforms []Platform

	// Source is the file the level was loaded from, if any.
	Source string
}

// InBounds reports whether p lies inside the level grid.
func (l *Level) InBounds(p core.Pos) bool {
	return p.X >= 0 && p.X < l.Width && p.Y >= 0 && p.Y < l.Height
}

// IsWall reports whether p is an impassable tile.
// Positions outside the grid count as walls.
func (l *Level) IsWall(p core.Pos) bool {
	if !l.InBounds(p) {
		return true
	}
	return l.Walls[p]
}

// DoorIndex returns the index of the door at p, or -1.
func (l *Level) DoorIndex(p core.Pos) int {
	for i, d := range l.Doors {
		if d.Pos == p {
			return i
		}
	}
	return -1
}
