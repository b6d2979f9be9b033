package core

// Action represents a semantic player intent, abstracted from physical key presses.
// This allows the game layer to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionConfirm        // Enter - confirm selection / next level
	ActionBack           // B, Escape - back to menu
	ActionRestart        // R - restart the current level
	ActionQuit           // Q, Ctrl+C - exit
	ActionScores         // Tab - open the scoreboard
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionScores:
		return "Scores"
	default:
		return "Unknown"
	}
}

// Dir returns the movement direction for directional actions.
// Non-directional actions map to DirNone.
func (a Action) Dir() Dir {
	switch a {
	case ActionUp:
		return DirUp
	case ActionDown:
		return DirDown
	case ActionLeft:
		return DirLeft
	case ActionRight:
		return DirRight
	default:
		return DirNone
	}
}

// IsMove reports whether the action is one of the four move intents.
func (a Action) IsMove() bool {
	return a.Dir() != DirNone
}
