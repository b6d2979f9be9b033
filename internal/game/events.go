package game

import (
	"time"

	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

// EventKind identifies a discrete notification for presentation layers.
type EventKind int

const (
	EventMoved EventKind = iota
	EventPillowCollected
	EventDreamCollected
	EventKeyCollected
	EventDoorOpened
	EventPowerupCollected
	EventMagnetPull
	EventNeedPillows
	EventWon
	EventLost
	EventEnemyMoved
)

var eventNames = [...]string{
	EventMoved:            "moved",
	EventPillowCollected:  "pillow_collected",
	EventDreamCollected:   "dream_collected",
	EventKeyCollected:     "key_collected",
	EventDoorOpened:       "door_opened",
	EventPowerupCollected: "powerup_collected",
	EventMagnetPull:       "magnet_pull",
	EventNeedPillows:      "need_pillows",
	EventWon:              "won",
	EventLost:             "lost",
	EventEnemyMoved:       "enemy_moved",
}

// String returns the event name.
func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event describes one effect of a move or tick.
// Only the fields relevant to the kind are set.
type Event struct {
	Kind    EventKind
	Pos     core.Pos
	Index   int               // Item, door or enemy index
	Color   string            // Key and door events
	Powerup level.PowerupKind // Powerup events
	Count   int               // Items pulled by a magnet
	Time    time.Duration     // Final time on win
}
