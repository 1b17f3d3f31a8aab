package wm

import (
	"encoding/binary"

	"github.com/jezek/xgb/xproto"

	"github.com/schctl/nerdwm/internal/x11"
)

// fakeConn is an in-memory display server for exercising the state machine.
type fakeConn struct {
	root   xproto.Window
	width  uint16
	height uint16

	nextID   xproto.Window
	nextAtom xproto.Atom

	geoms     map[xproto.Window]x11.Geometry
	parents   map[xproto.Window]xproto.Window
	mapped    map[xproto.Window]bool
	saveSet   map[xproto.Window]bool
	destroyed map[xproto.Window]bool
	colors    map[xproto.Window]uint32
	widths    map[xproto.Window]uint16
	cursors   map[xproto.Window]uint16
	atoms     map[string]xproto.Atom
	props     map[xproto.Atom][]byte

	reparents   []xproto.Window
	raised      []xproto.Window
	messages    []fakeMessage
	keyGrabs    []xproto.Keycode
	buttonGrabs []xproto.Button
	serverGrabs int
	children    []xproto.Window
}

type fakeMessage struct {
	window xproto.Window
	typ    xproto.Atom
	data   [5]uint32
}

var _ x11.Conn = (*fakeConn)(nil)

func newFakeConn() *fakeConn {
	return &fakeConn{
		root:      1,
		width:     1920,
		height:    1080,
		nextID:    1000,
		geoms:     make(map[xproto.Window]x11.Geometry),
		parents:   make(map[xproto.Window]xproto.Window),
		mapped:    make(map[xproto.Window]bool),
		saveSet:   make(map[xproto.Window]bool),
		destroyed: make(map[xproto.Window]bool),
		colors:    make(map[xproto.Window]uint32),
		widths:    make(map[xproto.Window]uint16),
		cursors:   make(map[xproto.Window]uint16),
		atoms:     make(map[string]xproto.Atom),
		props:     make(map[xproto.Atom][]byte),
	}
}

// addWindow seeds a client-created window the way the server would report it.
func (f *fakeConn) addWindow(win xproto.Window, geom x11.Geometry) {
	f.geoms[win] = geom
	f.parents[win] = f.root
}

func (f *fakeConn) Root() xproto.Window          { return f.root }
func (f *fakeConn) ScreenSize() (uint16, uint16) { return f.width, f.height }

func (f *fakeConn) CreateWindow(parent xproto.Window, geom x11.Geometry, borderWidth uint16, borderColor uint32, eventMask uint32) (xproto.Window, error) {
	f.nextID++
	wid := f.nextID
	f.geoms[wid] = geom
	f.parents[wid] = parent
	f.widths[wid] = borderWidth
	f.colors[wid] = borderColor
	return wid, nil
}

func (f *fakeConn) Map(w xproto.Window) error {
	f.mapped[w] = true
	return nil
}

func (f *fakeConn) Unmap(w xproto.Window) error {
	f.mapped[w] = false
	return nil
}

func (f *fakeConn) Reparent(w, parent xproto.Window) error {
	f.parents[w] = parent
	f.reparents = append(f.reparents, w)
	return nil
}

func (f *fakeConn) Destroy(w xproto.Window) error {
	f.destroyed[w] = true
	return nil
}

func (f *fakeConn) Configure(w xproto.Window, mask uint16, values []uint32) error {
	geom := f.geoms[w]
	i := 0
	if mask&xproto.ConfigWindowX != 0 {
		geom.X = int16(int32(values[i]))
		i++
	}
	if mask&xproto.ConfigWindowY != 0 {
		geom.Y = int16(int32(values[i]))
		i++
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		geom.Width = uint16(values[i])
		i++
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		geom.Height = uint16(values[i])
		i++
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		f.widths[w] = uint16(values[i])
		i++
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		i++
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		if values[i] == xproto.StackModeAbove {
			f.raised = append(f.raised, w)
		}
	}
	f.geoms[w] = geom
	return nil
}

func (f *fakeConn) Raise(w xproto.Window) error {
	return f.Configure(w, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

func (f *fakeConn) SetSaveSet(w xproto.Window, member bool) error {
	f.saveSet[w] = member
	return nil
}

func (f *fakeConn) SetEventMask(xproto.Window, uint32) error { return nil }

func (f *fakeConn) SetBorderWidth(w xproto.Window, width uint16) error {
	f.widths[w] = width
	return nil
}

func (f *fakeConn) SetBorderColor(w xproto.Window, color uint32) error {
	f.colors[w] = color
	return nil
}

func (f *fakeConn) SetCursor(w xproto.Window, glyph uint16) error {
	f.cursors[w] = glyph
	return nil
}

func (f *fakeConn) GetGeometry(w xproto.Window) (x11.Geometry, error) {
	geom, ok := f.geoms[w]
	if !ok {
		return x11.Geometry{}, x11.ErrConnClosed
	}
	return geom, nil
}

func (f *fakeConn) Children(xproto.Window) ([]xproto.Window, error) {
	return f.children, nil
}

func (f *fakeConn) GrabServer() error {
	f.serverGrabs++
	return nil
}

func (f *fakeConn) UngrabServer() error {
	f.serverGrabs--
	return nil
}

func (f *fakeConn) GrabKey(_ xproto.Window, keycode xproto.Keycode, _ uint16) error {
	f.keyGrabs = append(f.keyGrabs, keycode)
	return nil
}

func (f *fakeConn) GrabButton(_ xproto.Window, button xproto.Button, _ uint16) error {
	f.buttonGrabs = append(f.buttonGrabs, button)
	return nil
}

func (f *fakeConn) KeycodeForKeysym(keysym uint32) (xproto.Keycode, error) {
	// Arbitrary but stable mapping for tests.
	return xproto.Keycode(keysym % 200), nil
}

func (f *fakeConn) InternAtom(name string) (xproto.Atom, error) {
	if atom, ok := f.atoms[name]; ok {
		return atom, nil
	}
	f.nextAtom++
	atom := f.nextAtom + 255
	f.atoms[name] = atom
	return atom, nil
}

func (f *fakeConn) ChangeProperty(_ xproto.Window, property, _ xproto.Atom, _ byte, data []byte) error {
	f.props[property] = data
	return nil
}

func (f *fakeConn) SendClientMessage(w xproto.Window, typ xproto.Atom, data [5]uint32) error {
	f.messages = append(f.messages, fakeMessage{window: w, typ: typ, data: data})
	return nil
}

func (f *fakeConn) WaitForEvent() (x11.Event, error) { return nil, x11.ErrConnClosed }
func (f *fakeConn) Flush() error                     { return nil }
func (f *fakeConn) Close()                           {}

// clientList decodes the published _NET_CLIENT_LIST property.
func (f *fakeConn) clientList() []xproto.Window {
	atom, ok := f.atoms["_NET_CLIENT_LIST"]
	if !ok {
		return nil
	}
	data := f.props[atom]
	wins := make([]xproto.Window, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		wins = append(wins, xproto.Window(binary.LittleEndian.Uint32(data[i:])))
	}
	return wins
}

// activeWindow decodes the published _NET_ACTIVE_WINDOW property.
func (f *fakeConn) activeWindow() xproto.Window {
	atom, ok := f.atoms["_NET_ACTIVE_WINDOW"]
	if !ok {
		return 0
	}
	data := f.props[atom]
	if len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}
