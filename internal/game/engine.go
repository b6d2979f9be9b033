package game

import (
	"time"

	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

// Engine applies moves and ticks to sessions.
// It is stateless apart from its rules and safe to share.
type Engine struct {
	rules Rules
}

// NewEngine creates an engine with the given rules.
func NewEngine(r Rules) *Engine {
	return &Engine{rules: r}
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Move attempts to step the player one tile in dir.
//
// The input session is never modified. A rejected or ignored move returns s
// itself and no events; an accepted move returns a new session and the
// events it produced, in this order: move, pillow, dream, key and doors,
// powerup and magnet, bed, hazard.
func (e *Engine) Move(s *Session, lvl *level.Level, dir core.Dir, now time.Time) (*Session, []Event) {
	if s.Outcome.Terminal() || dir == core.DirNone {
		return s, nil
	}

	target := s.Player.Step(dir)
	if lvl.IsWall(target) {
		return s, nil
	}
	if d := lvl.DoorIndex(target); d >= 0 && !s.DoorOpen(d) {
		return s, nil
	}

	n := s.Clone()
	n.Player = target
	n.Moves++
	events := []Event{{Kind: EventMoved, Pos: target}}

	events = e.collectPillow(n, lvl, target, events)
	events = e.collectDream(n, lvl, target, events)
	events = e.collectKey(n, lvl, target, events)
	events = e.collectPowerup(n, lvl, target, now, events)

	if target == lvl.Bed {
		if !n.AllPillows(lvl) {
			events = append(events, Event{Kind: EventNeedPillows, Pos: target, Count: len(lvl.Pillows) - len(n.Pillows)})
		} else {
			n.FinalTime = e.rules.FinalTime(n.Elapsed(now), len(n.Dreams))
			n.Outcome = Won
			events = append(events, Event{Kind: EventWon, Pos: target, Time: n.FinalTime})
			return n, events
		}
	}

	if i := n.EnemyAt(target); i >= 0 && !n.Invincible(now) {
		n.Outcome = Lost
		events = append(events, Event{Kind: EventLost, Pos: target, Index: i})
	}

	return n, events
}

func (e *Engine) collectPillow(n *Session, lvl *level.Level, p core.Pos, events []Event) []Event {
	for i, pos := range lvl.Pillows {
		if pos == p && !n.Pillows[i] {
			n.Pillows[i] = true
			events = append(events, Event{Kind: EventPillowCollected, Pos: p, Index: i})
		}
	}
	return events
}

func (e *Engine) collectDream(n *Session, lvl *level.Level, p core.Pos, events []Event) []Event {
	for i, pos := range lvl.Dreams {
		if pos == p && !n.Dreams[i] {
			n.Dreams[i] = true
			events = append(events, Event{Kind: EventDreamCollected, Pos: p, Index: i})
		}
	}
	return events
}

// collectKey picks up a key on p and opens every door of its color.
func (e *Engine) collectKey(n *Session, lvl *level.Level, p core.Pos, events []Event) []Event {
	for i, k := range lvl.Keys {
		if k.Pos != p || n.Keys[i] {
			continue
		}
		n.Keys[i] = true
		events = append(events, Event{Kind: EventKeyCollected, Pos: p, Index: i, Color: k.Color})

		for d := range n.Doors {
			if n.Doors[d].Color == k.Color && !n.Doors[d].Open {
				n.Doors[d].Open = true
				events = append(events, Event{Kind: EventDoorOpened, Pos: n.Doors[d].Pos, Index: d, Color: k.Color})
			}
		}
	}
	return events
}

// collectPowerup starts a new timer for a powerup on p.
// A magnet also pulls in every pillow and dream within MagnetRadius.
func (e *Engine) collectPowerup(n *Session, lvl *level.Level, p core.Pos, now time.Time, events []Event) []Event {
	for i, pu := range lvl.Powerups {
		if pu.Pos != p || n.Powerups[i] {
			continue
		}
		n.Powerups[i] = true
		n.Active = append(n.Active, ActivePowerup{Kind: pu.Kind, Expiry: now.Add(e.rules.PowerupDuration)})
		events = append(events, Event{Kind: EventPowerupCollected, Pos: p, Index: i, Powerup: pu.Kind})

		if pu.Kind == level.PowerupMagnet {
			events = e.magnet(n, lvl, p, events)
		}
	}
	return events
}

func (e *Engine) magnet(n *Session, lvl *level.Level, center core.Pos, events []Event) []Event {
	pulled := 0
	for i, pos := range lvl.Pillows {
		if !n.Pillows[i] && center.Chebyshev(pos) <= e.rules.MagnetRadius {
			n.Pillows[i] = true
			pulled++
			events = append(events, Event{Kind: EventPillowCollected, Pos: pos, Index: i})
		}
	}
	for i, pos := range lvl.Dreams {
		if !n.Dreams[i] && center.Chebyshev(pos) <= e.rules.MagnetRadius {
			n.Dreams[i] = true
			pulled++
			events = append(events, Event{Kind: EventDreamCollected, Pos: pos, Index: i})
		}
	}
	return append(events, Event{Kind: EventMagnetPull, Pos: center, Count: pulled})
}

// Tick advances every enemy, then every platform, one step along its path.
// An enemy landing on the player ends the session unless invincibility
// covers now. Terminal sessions and levels with nothing to move return s
// unchanged.
func (e *Engine) Tick(s *Session, lvl *level.Level, now time.Time) (*Session, []Event) {
	if s.Outcome.Terminal() || (len(s.Enemies) == 0 && len(s.Platforms) == 0) {
		return s, nil
	}

	n := s.Clone()
	var events []Event
	lost := false

	for i := range n.Enemies {
		path := lvl.Enemies[i].Path
		es := &n.Enemies[i]
		es.PathIndex = (es.PathIndex + 1) % len(path)
		next := path[es.PathIndex]
		if next != es.Pos {
			es.Pos = next
			events = append(events, Event{Kind: EventEnemyMoved, Pos: next, Index: i})
		}

		if !lost && es.Pos == n.Player && !n.Invincible(now) {
			lost = true
			n.Outcome = Lost
			events = append(events, Event{Kind: EventLost, Pos: n.Player, Index: i})
		}
	}

	for i := range n.Platforms {
		ps := &n.Platforms[i]
		ps.PathIndex = (ps.PathIndex + 1) % len(lvl.Platforms[i].Path)
	}

	return n, events
}
