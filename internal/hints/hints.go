// Package hints publishes EWMH session state as root window properties.
// The root properties are the externally visible projection of manager state;
// nothing is cached locally, every publish is a full replace.
package hints

import (
	"encoding/binary"
	"os"

	"github.com/jezek/xgb/xproto"
)

const (
	NetSupported        = "_NET_SUPPORTED"
	NetWMName           = "_NET_WM_NAME"
	NetWMPid            = "_NET_WM_PID"
	NetClientList       = "_NET_CLIENT_LIST"
	NetDesktopNames     = "_NET_DESKTOP_NAMES"
	NetNumberOfDesktops = "_NET_NUMBER_OF_DESKTOPS"
	NetCurrentDesktop   = "_NET_CURRENT_DESKTOP"
	NetActiveWindow     = "_NET_ACTIVE_WINDOW"
)

var supported = []string{
	NetSupported,
	NetWMName,
	NetWMPid,
	NetClientList,
	NetDesktopNames,
	NetNumberOfDesktops,
	NetCurrentDesktop,
	NetActiveWindow,
}

// PropertyWriter is the protocol surface the synchronizer writes through.
type PropertyWriter interface {
	Root() xproto.Window
	ChangeProperty(w xproto.Window, property, typ xproto.Atom, format byte, data []byte) error
}

// AtomGetter resolves atom names, typically an xatom.Cache.
type AtomGetter interface {
	Get(name string) (xproto.Atom, error)
}

type Synchronizer struct {
	conn  PropertyWriter
	atoms AtomGetter
}

func NewSynchronizer(conn PropertyWriter, atoms AtomGetter) *Synchronizer {
	return &Synchronizer{
		conn:  conn,
		atoms: atoms,
	}
}

// PublishSupported advertises the hint set this manager maintains. Called once
// at startup; interning every hint atom here makes missing-atom failures
// startup-fatal instead of surfacing mid-session.
func (s *Synchronizer) PublishSupported() error {
	atoms := make([]uint32, 0, len(supported))
	for _, name := range supported {
		atom, err := s.atoms.Get(name)
		if err != nil {
			return err
		}
		atoms = append(atoms, uint32(atom))
	}
	return s.set(NetSupported, xproto.AtomAtom, 32, encodeU32(atoms))
}

// PublishName sets the manager's name hint as UTF8_STRING.
func (s *Synchronizer) PublishName(name string) error {
	utf8, err := s.atoms.Get("UTF8_STRING")
	if err != nil {
		return err
	}
	return s.set(NetWMName, utf8, 8, append([]byte(name), 0))
}

// PublishPID sets the manager's process id hint.
func (s *Synchronizer) PublishPID() error {
	return s.set(NetWMPid, xproto.AtomCardinal, 32, encodeU32([]uint32{uint32(os.Getpid())}))
}

// PublishActive sets the active window hint; pass 0 for none.
func (s *Synchronizer) PublishActive(w xproto.Window) error {
	return s.set(NetActiveWindow, xproto.AtomWindow, 32, encodeU32([]uint32{uint32(w)}))
}

// PublishClientList replaces the client list hint with wins in stack order.
func (s *Synchronizer) PublishClientList(wins []xproto.Window) error {
	values := make([]uint32, len(wins))
	for i, w := range wins {
		values[i] = uint32(w)
	}
	return s.set(NetClientList, xproto.AtomWindow, 32, encodeU32(values))
}

// PublishDesktopNames sets the desktop name list and, with it, the desktop
// count.
func (s *Synchronizer) PublishDesktopNames(names []string) error {
	if err := s.set(NetNumberOfDesktops, xproto.AtomCardinal, 32,
		encodeU32([]uint32{uint32(len(names))})); err != nil {
		return err
	}

	utf8, err := s.atoms.Get("UTF8_STRING")
	if err != nil {
		return err
	}

	var joined []byte
	for _, name := range names {
		joined = append(joined, name...)
		joined = append(joined, 0)
	}
	return s.set(NetDesktopNames, utf8, 8, joined)
}

// PublishCurrentDesktop sets the index of the visible desktop.
func (s *Synchronizer) PublishCurrentDesktop(index int) error {
	return s.set(NetCurrentDesktop, xproto.AtomCardinal, 32, encodeU32([]uint32{uint32(index)}))
}

func (s *Synchronizer) set(property string, typ xproto.Atom, format byte, data []byte) error {
	atom, err := s.atoms.Get(property)
	if err != nil {
		return err
	}
	return s.conn.ChangeProperty(s.conn.Root(), atom, typ, format, data)
}

func encodeU32(values []uint32) []byte {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	return data
}
