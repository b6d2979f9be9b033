package core

// RuntimeConfig contains per-run settings passed from the CLI to the platform.
type RuntimeConfig struct {
	ScreenW    int    // Screen width in characters
	ScreenH    int    // Screen height in characters
	Pack       string // Level pack ID
	StartLevel int    // 0-based level index to start from
	PlayerName string // Pre-filled leaderboard name (may be empty)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Pack:    "classic",
	}
}
