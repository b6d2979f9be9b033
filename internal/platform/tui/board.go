package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/game"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

// Board glyphs.
const (
	glyphWall       = '#'
	glyphPlayer     = '@'
	glyphBed        = '='
	glyphPillow     = 'o'
	glyphDream      = '*'
	glyphKey        = 'k'
	glyphDoorClosed = '+'
	glyphDoorOpen   = '/'
	glyphEnemy      = 'e'
	glyphBoss       = 'E'
	glyphPlatform   = '_'
)

var powerupGlyphs = map[level.PowerupKind]rune{
	level.PowerupSpeed:      '>',
	level.PowerupInvincible: '!',
	level.PowerupTime:       '%',
	level.PowerupMagnet:     'U',
}

var powerupOrder = []level.PowerupKind{
	level.PowerupSpeed,
	level.PowerupInvincible,
	level.PowerupTime,
	level.PowerupMagnet,
}

// drawBoard paints the level and session state into s, which must be at
// least as large as the level. Later layers overwrite earlier ones: terrain,
// items, platforms, enemies, then the player.
func drawBoard(s *core.Screen, lvl *level.Level, sess *game.Session, now time.Time) {
	s.Clear()
	wall := wallColor(lvl.Theme)
	floor := floorRune(lvl.Theme)

	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			if lvl.Walls[core.P(x, y)] {
				s.SetColored(x, y, glyphWall, wall)
			} else {
				s.SetColored(x, y, floor, core.ColorGray)
			}
		}
	}

	s.SetColored(lvl.Bed.X, lvl.Bed.Y, glyphBed, core.ColorBrightMagenta)

	for i, p := range lvl.Pillows {
		if !sess.Pillows[i] {
			s.SetColored(p.X, p.Y, glyphPillow, core.ColorBrightWhite)
		}
	}
	for i, p := range lvl.Dreams {
		if !sess.Dreams[i] {
			s.SetColored(p.X, p.Y, glyphDream, core.ColorBrightCyan)
		}
	}
	for i, k := range lvl.Keys {
		if !sess.Keys[i] {
			s.SetColored(k.Pos.X, k.Pos.Y, glyphKey, itemColor(k.Color))
		}
	}
	for i, d := range lvl.Doors {
		r := glyphDoorClosed
		if sess.DoorOpen(i) {
			r = glyphDoorOpen
		}
		s.SetColored(d.Pos.X, d.Pos.Y, r, itemColor(d.Color))
	}
	for i, p := range lvl.Powerups {
		if !sess.Powerups[i] {
			s.SetColored(p.Pos.X, p.Pos.Y, powerupGlyphs[p.Kind], core.ColorBrightYellow)
		}
	}
	for i := range lvl.Platforms {
		p := sess.PlatformPos(lvl, i)
		s.SetColored(p.X, p.Y, glyphPlatform, core.ColorOrange)
	}
	for i, e := range sess.Enemies {
		r, c := glyphEnemy, core.ColorBrightRed
		if lvl.Enemies[i].Kind == level.EnemyBoss {
			r, c = glyphBoss, core.ColorRed
		}
		s.SetColored(e.Pos.X, e.Pos.Y, r, c)
	}

	player := core.ColorBrightWhite
	switch {
	case sess.Outcome == game.Lost:
		player = core.ColorRed
	case sess.Invincible(now):
		player = core.ColorBrightYellow
	}
	s.SetColored(sess.Player.X, sess.Player.Y, glyphPlayer, player)
}

// itemColor maps a door or key color name to a screen color.
func itemColor(name string) core.Color {
	c, ok := core.ParseColor(name)
	if !ok {
		return core.ColorWhite
	}
	return c
}

// sessionTime is the clock shown in the HUD: the final time once won,
// otherwise the running elapsed time.
func sessionTime(sess *game.Session, now time.Time) time.Duration {
	if sess.Outcome == game.Won {
		return sess.FinalTime
	}
	return sess.Elapsed(now)
}

// formatSeconds renders d as seconds with one decimal.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// hudLines returns the status lines shown under the board.
func hudLines(v campaign.View, now time.Time) []string {
	lvl, sess := v.Level, v.Session

	best := "--"
	if v.HasBest {
		best = formatSeconds(v.Best)
	}
	status := fmt.Sprintf("Pillows %d/%d  Dreams %d/%d  Time %s  Best %s  Moves %d",
		len(sess.Pillows), len(lvl.Pillows),
		len(sess.Dreams), len(lvl.Dreams),
		formatSeconds(sessionTime(sess, now)), best, sess.Moves)

	var active []string
	for _, kind := range powerupOrder {
		if rem := sess.Remaining(kind, now); rem > 0 {
			active = append(active, fmt.Sprintf("%s %.0fs", kind, rem.Seconds()))
		}
	}
	lines := []string{status}
	if len(active) > 0 {
		lines = append(lines, "Active: "+strings.Join(active, "  "))
	}
	return lines
}
