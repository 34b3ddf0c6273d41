package core

// Action represents a semantic player action, abstracted from physical keys.
type Action int

const (
	ActionNone        Action = iota
	ActionTiltUp             // W, Up arrow
	ActionTiltDown           // S, Down arrow
	ActionTiltLeft           // A, Left arrow
	ActionTiltRight          // D, Right arrow
	ActionLevel              // X - hold the board flat
	ActionAcknowledge        // Enter, Space - dismiss the win dialog
	ActionQuit               // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTiltUp:
		return "TiltUp"
	case ActionTiltDown:
		return "TiltDown"
	case ActionTiltLeft:
		return "TiltLeft"
	case ActionTiltRight:
		return "TiltRight"
	case ActionLevel:
		return "Level"
	case ActionAcknowledge:
		return "Acknowledge"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsTilt reports whether the action steers the board.
func (a Action) IsTilt() bool {
	switch a {
	case ActionTiltUp, ActionTiltDown, ActionTiltLeft, ActionTiltRight, ActionLevel:
		return true
	}
	return false
}
