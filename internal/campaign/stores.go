package campaign

import "time"

// ScoreRecord is one leaderboard entry for a completed run.
type ScoreRecord struct {
	Name           string
	ElapsedSeconds float64 // Sum of final times of every level in the run
	LevelNumber    int     // 1-based number of the last level played
	CreatedAt      time.Time
}

// BestTimeStore persists the best (lowest) final time per level index.
type BestTimeStore interface {
	// BestTime returns the record for a level; ok is false when none exists.
	BestTime(levelIndex int) (d time.Duration, ok bool, err error)
	// SetBestTime stores d unless a lower time is already recorded.
	SetBestTime(levelIndex int, d time.Duration) error
	// AllBestTimes returns every recorded level.
	AllBestTimes() (map[int]time.Duration, error)
}

// Leaderboard persists the lowest-time runs.
// List returns records sorted ascending by elapsed time, ties by insertion order.
type Leaderboard interface {
	Append(rec ScoreRecord) error
	List() ([]ScoreRecord, error)
}

// Attempt is one finished (won or lost) level attempt.
type Attempt struct {
	SessionID  string
	LevelIndex int
	Outcome    string
	Final      time.Duration // Zero for losses
	Moves      int
	At         time.Time
}

// AttemptLog keeps the history of finished attempts.
type AttemptLog interface {
	RecordAttempt(a Attempt) error
}
