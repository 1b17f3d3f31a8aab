// Package x11 wraps the X wire protocol behind the narrow surface the window
// manager consumes. Everything here maps one-to-one onto core protocol
// requests; policy lives in internal/wm.
package x11

import (
	"errors"

	"github.com/jezek/xgb/xproto"
)

// ErrConnClosed reports that the server connection is gone. Nothing is
// recoverable past this point; the save-set mechanism restores managed
// windows once the connection drops.
var ErrConnClosed = errors.New("x11: connection closed")

// Geometry is a window's position and size as reported by the server.
type Geometry struct {
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

// Conn is the display protocol adapter. The concrete implementation is XGB;
// tests substitute fakes.
type Conn interface {
	// Root returns the default screen's root window.
	Root() xproto.Window
	// ScreenSize returns the default screen dimensions in pixels.
	ScreenSize() (width, height uint16)

	CreateWindow(parent xproto.Window, geom Geometry, borderWidth uint16, borderColor uint32, eventMask uint32) (xproto.Window, error)
	Map(w xproto.Window) error
	Unmap(w xproto.Window) error
	Reparent(w, parent xproto.Window) error
	Destroy(w xproto.Window) error
	// Configure issues a ConfigureWindow request. Values follow the
	// ascending bit order of mask.
	Configure(w xproto.Window, mask uint16, values []uint32) error
	Raise(w xproto.Window) error
	SetSaveSet(w xproto.Window, member bool) error
	SetEventMask(w xproto.Window, mask uint32) error
	SetBorderWidth(w xproto.Window, width uint16) error
	SetBorderColor(w xproto.Window, color uint32) error
	SetCursor(w xproto.Window, glyph uint16) error

	GetGeometry(w xproto.Window) (Geometry, error)
	Children(w xproto.Window) ([]xproto.Window, error)

	GrabServer() error
	UngrabServer() error
	GrabKey(w xproto.Window, keycode xproto.Keycode, mods uint16) error
	GrabButton(w xproto.Window, button xproto.Button, mods uint16) error
	KeycodeForKeysym(keysym uint32) (xproto.Keycode, error)

	InternAtom(name string) (xproto.Atom, error)
	ChangeProperty(w xproto.Window, property, typ xproto.Atom, format byte, data []byte) error
	SendClientMessage(w xproto.Window, typ xproto.Atom, data [5]uint32) error

	// WaitForEvent blocks for the next decoded event. It returns
	// ErrConnClosed once the connection is gone; any other error is a
	// protocol-level error and the loop may continue.
	WaitForEvent() (Event, error)
	Flush() error
	Close()
}
