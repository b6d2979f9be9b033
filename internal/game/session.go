// Package game holds the mutable state of one level attempt and the pure
// rules that advance it. Nothing in this package blocks, logs or keeps timers:
// every transition is a function of (session, level, input, now).
package game

import (
	"time"

	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

// Outcome is the result state of a session.
type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further moves or ticks apply.
func (o Outcome) Terminal() bool {
	return o != InProgress
}

// DoorState is the per-session copy of a level door.
type DoorState struct {
	Pos   core.Pos
	Color string
	Open  bool
}

// EnemyState tracks one hazard along its patrol path.
type EnemyState struct {
	Pos       core.Pos
	PathIndex int
	Health    int // Boss only; nothing deals damage yet
}

// PlatformState tracks one moving platform along its path.
type PlatformState struct {
	PathIndex int
}

// ActivePowerup is one running powerup timer. Timers never merge, so the same
// kind may appear several times.
type ActivePowerup struct {
	Kind   level.PowerupKind
	Expiry time.Time
}

// Session is the mutable runtime state of one attempt at a level.
// Collected sets hold indices into the level's ordered item slices.
type Session struct {
	Player core.Pos

	Pillows  map[int]bool
	Dreams   map[int]bool
	Keys     map[int]bool
	Powerups map[int]bool

	Doors     []DoorState
	Enemies   []EnemyState
	Platforms []PlatformState
	Active    []ActivePowerup

	Moves     int
	StartedAt time.Time
	Outcome   Outcome

	// FinalTime is set when the session is won.
	FinalTime time.Duration
}

// NewSession creates a fresh session for lvl started at now.
// Doors always start closed and every patrol starts at index 0.
func NewSession(lvl *level.Level, now time.Time) *Session {
	s := &Session{
		Player:    lvl.Start,
		Pillows:   make(map[int]bool),
		Dreams:    make(map[int]bool),
		Keys:      make(map[int]bool),
		Powerups:  make(map[int]bool),
		Doors:     make([]DoorState, len(lvl.Doors)),
		Enemies:   make([]EnemyState, len(lvl.Enemies)),
		Platforms: make([]PlatformState, len(lvl.Platforms)),
		StartedAt: now,
		Outcome:   InProgress,
	}

	for i, d := range lvl.Doors {
		s.Doors[i] = DoorState{Pos: d.Pos, Color: d.Color}
	}
	for i, e := range lvl.Enemies {
		s.Enemies[i] = EnemyState{Pos: e.Start}
		if e.Kind == level.EnemyBoss {
			s.Enemies[i].Health = e.MaxHealth
		}
	}

	return s
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Pillows = cloneSet(s.Pillows)
	c.Dreams = cloneSet(s.Dreams)
	c.Keys = cloneSet(s.Keys)
	c.Powerups = cloneSet(s.Powerups)
	c.Doors = append([]DoorState(nil), s.Doors...)
	c.Enemies = append([]EnemyState(nil), s.Enemies...)
	c.Platforms = append([]PlatformState(nil), s.Platforms...)
	c.Active = append([]ActivePowerup(nil), s.Active...)
	return &c
}

func cloneSet(m map[int]bool) map[int]bool {
	c := make(map[int]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// HasActive reports whether a powerup of kind covers now.
func (s *Session) HasActive(kind level.PowerupKind, now time.Time) bool {
	for _, a := range s.Active {
		if a.Kind == kind && a.Expiry.After(now) {
			return true
		}
	}
	return false
}

// Invincible reports whether an invincible powerup covers now.
func (s *Session) Invincible(now time.Time) bool {
	return s.HasActive(level.PowerupInvincible, now)
}

// Remaining returns the longest remaining duration among active powerups of kind.
func (s *Session) Remaining(kind level.PowerupKind, now time.Time) time.Duration {
	var best time.Duration
	for _, a := range s.Active {
		if a.Kind == kind {
			if d := a.Expiry.Sub(now); d > best {
				best = d
			}
		}
	}
	return best
}

// PruneExpired drops powerup timers that no longer cover now.
// Expiry is otherwise evaluated lazily, so this only keeps the slice short.
// Returns true if anything was removed.
func (s *Session) PruneExpired(now time.Time) bool {
	kept := s.Active[:0]
	for _, a := range s.Active {
		if a.Expiry.After(now) {
			kept = append(kept, a)
		}
	}
	removed := len(kept) != len(s.Active)
	s.Active = kept
	return removed
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// DoorOpen reports whether the door at index i is open.
func (s *Session) DoorOpen(i int) bool {
	return i >= 0 && i < len(s.Doors) && s.Doors[i].Open
}

// EnemyAt returns the index of the first enemy on p, or -1.
func (s *Session) EnemyAt(p core.Pos) int {
	for i, e := range s.Enemies {
		if e.Pos == p {
			return i
		}
	}
	return -1
}

// PlatformPos returns the current position of platform i.
func (s *Session) PlatformPos(lvl *level.Level, i int) core.Pos {
	path := lvl.Platforms[i].Path
	return path[s.Platforms[i].PathIndex%len(path)]
}

// AllPillows reports whether every pillow of lvl has been collected.
func (s *Session) AllPillows(lvl *level.Level) bool {
	return len(s.Pillows) >= len(lvl.Pillows)
}
