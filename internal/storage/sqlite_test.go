package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func eachStore(t *testing.T, size int, fn func(t *testing.T, s Records)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, openTestStore(t).Scope("classic", size))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory(size))
	})
}

func TestBestTimeKeepsMinimum(t *testing.T) {
	eachStore(t, 10, func(t *testing.T, s Records) {
		if _, ok, err := s.BestTime(0); err != nil || ok {
			t.Fatalf("empty store BestTime = %v, %v", ok, err)
		}

		steps := []struct {
			set      time.Duration
			expected time.Duration
		}{
			{5 * time.Second, 5 * time.Second},
			{7 * time.Second, 5 * time.Second},
			{3200 * time.Millisecond, 3200 * time.Millisecond},
		}
		for _, st := range steps {
			if err := s.SetBestTime(2, st.set); err != nil {
				t.Fatalf("SetBestTime failed: %v", err)
			}
			d, ok, err := s.BestTime(2)
			if err != nil || !ok {
				t.Fatalf("BestTime = %v, %v", ok, err)
			}
			if d != st.expected {
				t.Errorf("BestTime after %v = %v, expected %v", st.set, d, st.expected)
			}
		}

		if err := s.SetBestTime(0, time.Second); err != nil {
			t.Fatal(err)
		}
		all, err := s.AllBestTimes()
		if err != nil {
			t.Fatalf("AllBestTimes failed: %v", err)
		}
		if len(all) != 2 || all[0] != time.Second || all[2] != 3200*time.Millisecond {
			t.Errorf("AllBestTimes = %v", all)
		}
	})
}

func TestLeaderboardKeepsLowestSorted(t *testing.T) {
	eachStore(t, 10, func(t *testing.T, s Records) {
		times := []float64{30, 12.5, 44, 12.5, 8, 99, 61, 20, 15.2, 70, 5, 33, 12.5, 100}
		for i, e := range times {
			rec := campaign.ScoreRecord{Name: string(rune('a' + i)), ElapsedSeconds: e, LevelNumber: 5}
			if err := s.Append(rec); err != nil {
				t.Fatalf("Append failed: %v", err)
			}

			list, err := s.List()
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(list) > 10 {
				t.Fatalf("leaderboard has %d entries, expected at most 10", len(list))
			}
			for j := 1; j < len(list); j++ {
				if list[j-1].ElapsedSeconds > list[j].ElapsedSeconds {
					t.Fatalf("leaderboard not sorted: %v", list)
				}
			}
		}

		list, _ := s.List()
		if len(list) != 10 {
			t.Fatalf("expected 10 entries, got %d", len(list))
		}
		if list[0].ElapsedSeconds != 5 || list[9].ElapsedSeconds != 44 {
			t.Errorf("unexpected range: first %v last %v", list[0].ElapsedSeconds, list[9].ElapsedSeconds)
		}

		// Ties keep insertion order: b, d, m all have 12.5
		var tied []string
		for _, r := range list {
			if r.ElapsedSeconds == 12.5 {
				tied = append(tied, r.Name)
			}
		}
		if len(tied) != 3 || tied[0] != "b" || tied[1] != "d" || tied[2] != "m" {
			t.Errorf("tied names = %v, expected [b d m]", tied)
		}

		if err := s.ClearLeaderboard(); err != nil {
			t.Fatal(err)
		}
		if list, _ := s.List(); len(list) != 0 {
			t.Errorf("expected empty leaderboard after clear, got %d", len(list))
		}
	})
}

func TestAttemptHistory(t *testing.T) {
	eachStore(t, 10, func(t *testing.T, s Records) {
		at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			a := campaign.Attempt{SessionID: "abc", LevelIndex: i, Outcome: "won", Final: time.Duration(i+1) * time.Second, Moves: 10 + i, At: at}
			if err := s.RecordAttempt(a); err != nil {
				t.Fatalf("RecordAttempt failed: %v", err)
			}
		}

		recent, err := s.RecentAttempts(2)
		if err != nil {
			t.Fatalf("RecentAttempts failed: %v", err)
		}
		if len(recent) != 2 || recent[0].LevelIndex != 2 || recent[1].LevelIndex != 1 {
			t.Fatalf("recent = %+v", recent)
		}
		if recent[0].Final != 3*time.Second || recent[0].Moves != 12 {
			t.Errorf("attempt = %+v", recent[0])
		}
		if !recent[0].At.Equal(at) {
			t.Errorf("attempt time = %v, expected %v", recent[0].At, at)
		}
	})
}

func TestScopesAreIndependent(t *testing.T) {
	store := openTestStore(t)
	classic := store.Scope("classic", 10)
	tutorial := store.Scope("tutorial", 10)

	if err := classic.SetBestTime(0, 4*time.Second); err != nil {
		t.Fatal(err)
	}
	if err := tutorial.Append(campaign.ScoreRecord{Name: "x", ElapsedSeconds: 3, LevelNumber: 2}); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := tutorial.BestTime(0); ok {
		t.Error("best times leaked across packs")
	}
	if list, _ := classic.List(); len(list) != 0 {
		t.Error("leaderboard leaked across packs")
	}

	packs, err := store.Packs()
	if err != nil {
		t.Fatalf("Packs failed: %v", err)
	}
	if len(packs) != 2 || packs[0] != "classic" || packs[1] != "tutorial" {
		t.Errorf("Packs = %v", packs)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Scope("classic", 10).SetBestTime(1, 2500*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	d, ok, err := store.Scope("classic", 10).BestTime(1)
	if err != nil || !ok || d != 2500*time.Millisecond {
		t.Errorf("BestTime after reopen = %v, %v, %v", d, ok, err)
	}
}

func TestProviders(t *testing.T) {
	mem := MemoryProvider(3)
	if err := mem("classic").SetBestTime(0, time.Second); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := mem("classic").BestTime(0); !ok {
		t.Error("memory provider should return the same store per pack")
	}
	if _, ok, _ := mem("tutorial").BestTime(0); ok {
		t.Error("memory provider leaked across packs")
	}

	db := openTestStore(t).Provider(3)
	for i := 0; i < 5; i++ {
		if err := db("classic").Append(campaign.ScoreRecord{Name: "p", ElapsedSeconds: float64(10 - i), LevelNumber: 1}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := db("classic").List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].ElapsedSeconds != 6 {
		t.Errorf("provider leaderboard = %+v", list)
	}
}
