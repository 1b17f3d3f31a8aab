package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/schctl/nerdwm/internal/xcursor"
)

// XGB implements Conn on top of a jezek/xgb connection.
type XGB struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen *xproto.ScreenInfo
}

var _ Conn = (*XGB)(nil)

// Connect opens a connection to the display named by DISPLAY.
func Connect() (*XGB, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	return &XGB{
		conn:   conn,
		setup:  setup,
		screen: screen,
	}, nil
}

func (x *XGB) Root() xproto.Window {
	return x.screen.Root
}

func (x *XGB) ScreenSize() (uint16, uint16) {
	return x.screen.WidthInPixels, x.screen.HeightInPixels
}

func (x *XGB) CreateWindow(parent xproto.Window, geom Geometry, borderWidth uint16, borderColor uint32, eventMask uint32) (xproto.Window, error) {
	wid, err := xproto.NewWindowId(x.conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(x.conn, x.screen.RootDepth,
		wid, parent,
		geom.X, geom.Y, geom.Width, geom.Height, borderWidth,
		xproto.WindowClassInputOutput, x.screen.RootVisual,
		xproto.CwBorderPixel|xproto.CwEventMask,
		[]uint32{borderColor, eventMask}).Check()
	if err != nil {
		return 0, err
	}

	return wid, nil
}

func (x *XGB) Map(w xproto.Window) error {
	return xproto.MapWindowChecked(x.conn, w).Check()
}

func (x *XGB) Unmap(w xproto.Window) error {
	return xproto.UnmapWindowChecked(x.conn, w).Check()
}

func (x *XGB) Reparent(w, parent xproto.Window) error {
	return xproto.ReparentWindowChecked(x.conn, w, parent, 0, 0).Check()
}

func (x *XGB) Destroy(w xproto.Window) error {
	return xproto.DestroyWindowChecked(x.conn, w).Check()
}

func (x *XGB) Configure(w xproto.Window, mask uint16, values []uint32) error {
	return xproto.ConfigureWindowChecked(x.conn, w, mask, values).Check()
}

func (x *XGB) Raise(w xproto.Window) error {
	return x.Configure(w, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

func (x *XGB) SetSaveSet(w xproto.Window, member bool) error {
	mode := byte(xproto.SetModeInsert)
	if !member {
		mode = xproto.SetModeDelete
	}
	return xproto.ChangeSaveSetChecked(x.conn, mode, w).Check()
}

func (x *XGB) SetEventMask(w xproto.Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(x.conn, w,
		xproto.CwEventMask, []uint32{mask}).Check()
}

func (x *XGB) SetBorderWidth(w xproto.Window, width uint16) error {
	return x.Configure(w, xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
}

func (x *XGB) SetBorderColor(w xproto.Window, color uint32) error {
	return xproto.ChangeWindowAttributesChecked(x.conn, w,
		xproto.CwBorderPixel, []uint32{color}).Check()
}

func (x *XGB) SetCursor(w xproto.Window, glyph uint16) error {
	cursor, err := xcursor.CreateCursor(x.conn, glyph)
	if err != nil {
		return err
	}
	return xproto.ChangeWindowAttributesChecked(x.conn, w,
		xproto.CwCursor, []uint32{uint32(cursor)}).Check()
}

func (x *XGB) GetGeometry(w xproto.Window) (Geometry, error) {
	reply, err := xproto.GetGeometry(x.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		X:      reply.X,
		Y:      reply.Y,
		Width:  reply.Width,
		Height: reply.Height,
	}, nil
}

func (x *XGB) Children(w xproto.Window) ([]xproto.Window, error) {
	reply, err := xproto.QueryTree(x.conn, w).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Children, nil
}

func (x *XGB) GrabServer() error {
	return xproto.GrabServerChecked(x.conn).Check()
}

func (x *XGB) UngrabServer() error {
	return xproto.UngrabServerChecked(x.conn).Check()
}

func (x *XGB) GrabKey(w xproto.Window, keycode xproto.Keycode, mods uint16) error {
	return xproto.GrabKeyChecked(x.conn, true, w, mods, keycode,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
}

func (x *XGB) GrabButton(w xproto.Window, button xproto.Button, mods uint16) error {
	return xproto.GrabButtonChecked(x.conn, false, w,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, byte(button), mods).Check()
}

// KeycodeForKeysym resolves a keysym to the first keycode producing it in the
// server's current keyboard mapping.
func (x *XGB) KeycodeForKeysym(keysym uint32) (xproto.Keycode, error) {
	first := x.setup.MinKeycode
	count := byte(x.setup.MaxKeycode - x.setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(x.conn, first, count).Reply()
	if err != nil {
		return 0, err
	}

	per := int(reply.KeysymsPerKeycode)
	for i := 0; i < int(count); i++ {
		for j := 0; j < per; j++ {
			if uint32(reply.Keysyms[i*per+j]) == keysym {
				return first + xproto.Keycode(i), nil
			}
		}
	}

	return 0, fmt.Errorf("x11: no keycode for keysym 0x%x", keysym)
}

func (x *XGB) InternAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(x.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func (x *XGB) ChangeProperty(w xproto.Window, property, typ xproto.Atom, format byte, data []byte) error {
	dataLen := uint32(len(data)) / uint32(format/8)
	return xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace,
		w, property, typ, format, dataLen, data).Check()
}

func (x *XGB) SendClientMessage(w xproto.Window, typ xproto.Atom, data [5]uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}
	return xproto.SendEventChecked(x.conn, false, w,
		xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

func (x *XGB) WaitForEvent() (Event, error) {
	ev, err := x.conn.WaitForEvent()
	if ev == nil && err == nil {
		return nil, ErrConnClosed
	}
	if err != nil {
		return nil, fmt.Errorf("x11: %w", err)
	}
	return Decode(ev)
}

// Flush forces a round trip, draining any buffered requests.
func (x *XGB) Flush() error {
	x.conn.Sync()
	return nil
}

func (x *XGB) Close() {
	x.conn.Close()
}
