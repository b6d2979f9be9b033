package campaign

import (
	"github.com/vovakirdan/sleepwalk/internal/game"
)

// Update is published to the observer after every state change.
type Update struct {
	SessionID  string
	Player     string
	LevelIndex int
	LevelName  string
	Phase      Phase
	Snapshot   game.Snapshot
	Events     []game.Event
	Signals    []Signal
}

// Observer receives updates. Implementations must not block.
type Observer interface {
	Observe(u Update)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(u Update)

// Observe calls f(u).
func (f ObserverFunc) Observe(u Update) {
	f(u)
}
