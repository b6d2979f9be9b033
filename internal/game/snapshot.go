package game

import (
	"sort"
	"time"

	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

// Snapshot is a flat, serializable view of a session.
// Uses primitive types only for stable JSON encoding.
type Snapshot struct {
	Player    core.Pos   `json:"player"`
	Moves     int        `json:"moves"`
	Outcome   string     `json:"outcome"`
	ElapsedMs int64      `json:"elapsed_ms"`
	FinalMs   int64      `json:"final_ms,omitempty"`
	Pillows   []int      `json:"pillows"`
	Dreams    []int      `json:"dreams"`
	Keys      []int      `json:"keys"`
	Powerups  []int      `json:"powerups"`
	OpenDoors []int      `json:"open_doors"`
	Enemies   []core.Pos `json:"enemies"`
	Platforms []core.Pos `json:"platforms"`
	Active    []string   `json:"active"`
}

// Snapshot returns the session state at now.
func (s *Session) Snapshot(lvl *level.Level, now time.Time) Snapshot {
	snap := Snapshot{
		Player:    s.Player,
		Moves:     s.Moves,
		Outcome:   s.Outcome.String(),
		ElapsedMs: s.Elapsed(now).Milliseconds(),
		FinalMs:   s.FinalTime.Milliseconds(),
		Pillows:   setIndices(s.Pillows),
		Dreams:    setIndices(s.Dreams),
		Keys:      setIndices(s.Keys),
		Powerups:  setIndices(s.Powerups),
		OpenDoors: []int{},
		Enemies:   make([]core.Pos, len(s.Enemies)),
		Platforms: make([]core.Pos, len(s.Platforms)),
		Active:    []string{},
	}

	for i, d := range s.Doors {
		if d.Open {
			snap.OpenDoors = append(snap.OpenDoors, i)
		}
	}
	for i, e := range s.Enemies {
		snap.Enemies[i] = e.Pos
	}
	for i := range s.Platforms {
		snap.Platforms[i] = s.PlatformPos(lvl, i)
	}
	for _, a := range s.Active {
		if a.Expiry.After(now) {
			snap.Active = append(snap.Active, string(a.Kind))
		}
	}

	return snap
}

// Hash returns a simple hash of the time-independent state for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Moves)                //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Player.X)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Player.Y)       //#nosec G115 -- hash computation
	h = h*31 + uint64(len(snap.Outcome))   //#nosec G115 -- hash computation
	h = h*31 + uint64(len(snap.OpenDoors)) //#nosec G115 -- hash computation

	for _, set := range [][]int{snap.Pillows, snap.Dreams, snap.Keys, snap.Powerups, snap.OpenDoors} {
		for _, v := range set {
			h = h*31 + uint64(v) //#nosec G115 -- hash computation
		}
		h = h*31 + 7
	}

	for _, p := range snap.Enemies {
		h = h*31 + uint64(p.X) //#nosec G115 -- hash computation
		h = h*31 + uint64(p.Y) //#nosec G115 -- hash computation
	}
	for _, p := range snap.Platforms {
		h = h*31 + uint64(p.X) //#nosec G115 -- hash computation
		h = h*31 + uint64(p.Y) //#nosec G115 -- hash computation
	}

	return h
}

func setIndices(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Ints(out)
	return out
}
