package wm

import "github.com/jezek/xgb/xproto"

// ModeKind tags the interaction state machine.
type ModeKind int

const (
	ModeIdle ModeKind = iota
	ModeMoving
	ModeResizing
)

func (k ModeKind) String() string {
	switch k {
	case ModeMoving:
		return "moving"
	case ModeResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Mode is the current interaction state. Target holds the internal window id
// of the client being manipulated; it is a lookup-only reference, so handlers
// must re-resolve it against the stack and fall back to idle when the client
// is gone.
type Mode struct {
	Kind   ModeKind
	Target xproto.Window
}
