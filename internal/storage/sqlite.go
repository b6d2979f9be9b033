// Package storage provides SQLite-based persistence for best times, the
// leaderboard and the attempt history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/sleepwalk/internal/campaign"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// The persistence queue and the UI may touch the store from different
	// goroutines; one connection keeps SQLite writes serialized.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_times (
			pack TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			best_ms INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (pack, level_index)
		);

		CREATE TABLE IF NOT EXISTS leaderboard (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pack TEXT NOT NULL,
			name TEXT NOT NULL,
			elapsed_seconds REAL NOT NULL,
			level_number INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON leaderboard(pack, elapsed_seconds, id);

		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pack TEXT NOT NULL,
			session_id TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			final_ms INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_pack ON attempts(pack, id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Packs returns every pack with a leaderboard entry or best time, sorted.
func (s *Store) Packs() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT pack FROM best_times
		 UNION
		 SELECT pack FROM leaderboard
		 ORDER BY pack`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query packs: %w", err)
	}
	defer rows.Close()

	var packs []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		packs = append(packs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return packs, nil
}

// Scope returns a view of the store for one level pack. The leaderboard of
// the view keeps at most size entries.
func (s *Store) Scope(pack string, size int) *Scoped {
	if size <= 0 {
		size = 10
	}
	return &Scoped{store: s, pack: pack, size: size}
}

// Scoped is the per-pack store used by the lifecycle controller.
type Scoped struct {
	store *Store
	pack  string
	size  int
}

var (
	_ campaign.BestTimeStore = (*Scoped)(nil)
	_ campaign.Leaderboard   = (*Scoped)(nil)
	_ campaign.AttemptLog    = (*Scoped)(nil)
)

// Pack returns the pack this view is bound to.
func (s *Scoped) Pack() string {
	return s.pack
}

// BestTime returns the best time for a level.
func (s *Scoped) BestTime(levelIndex int) (time.Duration, bool, error) {
	var ms int64
	err := s.store.db.QueryRow(
		"SELECT best_ms FROM best_times WHERE pack = ? AND level_index = ?",
		s.pack, levelIndex,
	).Scan(&ms)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best time: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, true, nil
}

// SetBestTime stores d for a level unless a lower time is already recorded.
func (s *Scoped) SetBestTime(levelIndex int, d time.Duration) error {
	_, err := s.store.db.Exec(
		`INSERT INTO best_times (pack, level_index, best_ms, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(pack, level_index) DO UPDATE SET
		   best_ms = MIN(best_ms, excluded.best_ms),
		   updated_at = CURRENT_TIMESTAMP`,
		s.pack, levelIndex, d.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best time: %w", err)
	}
	return nil
}

// AllBestTimes returns the best time of every recorded level.
func (s *Scoped) AllBestTimes() (map[int]time.Duration, error) {
	rows, err := s.store.db.Query(
		"SELECT level_index, best_ms FROM best_times WHERE pack = ?",
		s.pack,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	defer rows.Close()

	out := make(map[int]time.Duration)
	for rows.Next() {
		var idx int
		var ms int64
		if err := rows.Scan(&idx, &ms); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out[idx] = time.Duration(ms) * time.Millisecond
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Append inserts a record and prunes the leaderboard to the size lowest
// elapsed times, ties broken by insertion order.
func (s *Scoped) Append(rec campaign.ScoreRecord) error {
	tx, err := s.store.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	if _, err := tx.Exec(
		`INSERT INTO leaderboard (pack, name, elapsed_seconds, level_number, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.pack, rec.Name, rec.ElapsedSeconds, rec.LevelNumber, created.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("storage: cannot save leaderboard entry: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM leaderboard
		 WHERE pack = ? AND id NOT IN (
		   SELECT id FROM leaderboard
		   WHERE pack = ?
		   ORDER BY elapsed_seconds ASC, id ASC
		   LIMIT ?
		 )`,
		s.pack, s.pack, s.size,
	); err != nil {
		return fmt.Errorf("storage: cannot prune leaderboard: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit leaderboard entry: %w", err)
	}
	return nil
}

// List returns the leaderboard sorted ascending by elapsed time.
func (s *Scoped) List() ([]campaign.ScoreRecord, error) {
	rows, err := s.store.db.Query(
		`SELECT name, elapsed_seconds, level_number, created_at
		 FROM leaderboard
		 WHERE pack = ?
		 ORDER BY elapsed_seconds ASC, id ASC
		 LIMIT ?`,
		s.pack, s.size,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var records []campaign.ScoreRecord
	for rows.Next() {
		var r campaign.ScoreRecord
		var createdAt any
		if err := rows.Scan(&r.Name, &r.ElapsedSeconds, &r.LevelNumber, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// ClearLeaderboard deletes every leaderboard entry of the pack.
func (s *Scoped) ClearLeaderboard() error {
	_, err := s.store.db.Exec("DELETE FROM leaderboard WHERE pack = ?", s.pack)
	if err != nil {
		return fmt.Errorf("storage: cannot clear leaderboard: %w", err)
	}
	return nil
}

// RecordAttempt appends one finished level attempt to the history.
func (s *Scoped) RecordAttempt(a campaign.Attempt) error {
	at := a.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.store.db.Exec(
		`INSERT INTO attempts (pack, session_id, level_index, outcome, final_ms, moves, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.pack, a.SessionID, a.LevelIndex, a.Outcome, a.Final.Milliseconds(), a.Moves, at.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save attempt: %w", err)
	}
	return nil
}

// RecentAttempts returns the latest attempts, newest first.
func (s *Scoped) RecentAttempts(limit int) ([]campaign.Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.db.Query(
		`SELECT session_id, level_index, outcome, final_ms, moves, created_at
		 FROM attempts
		 WHERE pack = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		s.pack, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []campaign.Attempt
	for rows.Next() {
		var a campaign.Attempt
		var ms int64
		var createdAt any
		if err := rows.Scan(&a.SessionID, &a.LevelIndex, &a.Outcome, &ms, &a.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a.Final = time.Duration(ms) * time.Millisecond
		a.At = parseTime(createdAt)
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return attempts, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
