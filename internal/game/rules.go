package game

import "time"

// Rules holds the tunable constants of the engine.
type Rules struct {
	PowerupDuration time.Duration // Lifetime of every powerup timer
	MagnetRadius    int           // Chebyshev radius of a magnet pickup
	DreamBonus      time.Duration // Time removed per collected dream
	MinFinalTime    time.Duration // Floor of the final time
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		PowerupDuration: 10 * time.Second,
		MagnetRadius:    3,
		DreamBonus:      time.Second,
		MinFinalTime:    time.Second,
	}
}

// FinalTime returns max(elapsed - dreams*bonus, floor).
func (r Rules) FinalTime(elapsed time.Duration, dreams int) time.Duration {
	final := elapsed - time.Duration(dreams)*r.DreamBonus
	if final < r.MinFinalTime {
		return r.MinFinalTime
	}
	return final
}
