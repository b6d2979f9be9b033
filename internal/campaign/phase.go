package campaign

// Phase is the controller's progression state around a session.
type Phase int

const (
	PhasePlaying       Phase = iota // Session in progress
	PhaseFallingAsleep              // Won, showing the sleep cue
	PhaseLevelComplete              // Won, waiting for Advance
	PhaseGameOver                   // Lost, waiting for Reset
	PhaseAwaitingName               // Won the final level, waiting for SubmitName
	PhaseFinished                   // Run recorded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseFallingAsleep:
		return "falling_asleep"
	case PhaseLevelComplete:
		return "level_complete"
	case PhaseGameOver:
		return "game_over"
	case PhaseAwaitingName:
		return "awaiting_name"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Signal is a controller-level notification, complementing engine events.
type Signal int

const (
	SignalStarted Signal = iota
	SignalReset
	SignalLevelAdvanced
	SignalNewRecord
	SignalLevelComplete
	SignalNameRequested
	SignalRunRecorded
)

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalStarted:
		return "started"
	case SignalReset:
		return "reset"
	case SignalLevelAdvanced:
		return "level_advanced"
	case SignalNewRecord:
		return "new_record"
	case SignalLevelComplete:
		return "level_complete"
	case SignalNameRequested:
		return "name_requested"
	case SignalRunRecorded:
		return "run_recorded"
	default:
		return "unknown"
	}
}
