package storage

import (
	"sync"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
)

// Records is the full per-pack persistence surface.
type Records interface {
	campaign.BestTimeStore
	campaign.Leaderboard
	campaign.AttemptLog
	ClearLeaderboard() error
	RecentAttempts(limit int) ([]campaign.Attempt, error)
}

// Provider hands out the records of a level pack.
type Provider func(pack string) Records

// Provider returns a provider backed by this database, keeping size
// leaderboard entries per pack.
func (s *Store) Provider(size int) Provider {
	return func(pack string) Records {
		return s.Scope(pack, size)
	}
}

// MemoryProvider returns a provider that keeps one in-memory store per pack
// for the lifetime of the process.
func MemoryProvider(size int) Provider {
	var mu sync.Mutex
	packs := make(map[string]*Memory)
	return func(pack string) Records {
		mu.Lock()
		defer mu.Unlock()
		m, ok := packs[pack]
		if !ok {
			m = NewMemory(size)
			packs[pack] = m
		}
		return m
	}
}
