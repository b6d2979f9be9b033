package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
)

// Memory is an in-process store with the same semantics as Scoped.
// Used in tests and when the database cannot be opened.
type Memory struct {
	mu       sync.Mutex
	size     int
	best     map[int]time.Duration
	board    []memoryEntry
	seq      int64
	attempts []campaign.Attempt
}

type memoryEntry struct {
	seq int64
	rec campaign.ScoreRecord
}

var (
	_ campaign.BestTimeStore = (*Memory)(nil)
	_ campaign.Leaderboard   = (*Memory)(nil)
	_ campaign.AttemptLog    = (*Memory)(nil)
	_ Records                = (*Memory)(nil)
)

// NewMemory creates an empty in-memory store keeping size leaderboard entries.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 10
	}
	return &Memory{size: size, best: make(map[int]time.Duration)}
}

// BestTime returns the best time for a level.
func (m *Memory) BestTime(levelIndex int) (time.Duration, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.best[levelIndex]
	return d, ok, nil
}

// SetBestTime stores d unless a lower time is already recorded.
func (m *Memory) SetBestTime(levelIndex int, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.best[levelIndex]; !ok || d < prev {
		m.best[levelIndex] = d
	}
	return nil
}

// AllBestTimes returns a copy of every recorded best time.
func (m *Memory) AllBestTimes() (map[int]time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]time.Duration, len(m.best))
	for k, v := range m.best {
		out[k] = v
	}
	return out, nil
}

// Append inserts a record and keeps the size lowest elapsed times.
func (m *Memory) Append(rec campaign.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.board = append(m.board, memoryEntry{seq: m.seq, rec: rec})
	sort.Slice(m.board, func(i, j int) bool {
		a, b := m.board[i], m.board[j]
		if a.rec.ElapsedSeconds == b.rec.ElapsedSeconds {
			return a.seq < b.seq
		}
		return a.rec.ElapsedSeconds < b.rec.ElapsedSeconds
	})
	if len(m.board) > m.size {
		m.board = m.board[:m.size]
	}
	return nil
}

// List returns the leaderboard sorted ascending by elapsed time.
func (m *Memory) List() ([]campaign.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]campaign.ScoreRecord, len(m.board))
	for i, e := range m.board {
		out[i] = e.rec
	}
	return out, nil
}

// ClearLeaderboard removes every entry.
func (m *Memory) ClearLeaderboard() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board = nil
	return nil
}

// RecordAttempt appends one finished level attempt.
func (m *Memory) RecordAttempt(a campaign.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

// RecentAttempts returns the latest attempts, newest first.
func (m *Memory) RecentAttempts(limit int) ([]campaign.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	var out []campaign.Attempt
	for i := len(m.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.attempts[i])
	}
	return out, nil
}
