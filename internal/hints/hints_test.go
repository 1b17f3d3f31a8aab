package hints

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/jezek/xgb/xproto"
)

type fakeAtoms struct {
	atoms map[string]xproto.Atom
	next  xproto.Atom
}

func (f *fakeAtoms) Get(name string) (xproto.Atom, error) {
	if f.atoms == nil {
		f.atoms = make(map[string]xproto.Atom)
	}
	if atom, ok := f.atoms[name]; ok {
		return atom, nil
	}
	f.next++
	f.atoms[name] = f.next + 255
	return f.next + 255, nil
}

type property struct {
	window xproto.Window
	typ    xproto.Atom
	format byte
	data   []byte
}

type fakeWriter struct {
	root  xproto.Window
	props map[xproto.Atom]property
}

func (f *fakeWriter) Root() xproto.Window { return f.root }

func (f *fakeWriter) ChangeProperty(w xproto.Window, prop, typ xproto.Atom, format byte, data []byte) error {
	if f.props == nil {
		f.props = make(map[xproto.Atom]property)
	}
	f.props[prop] = property{window: w, typ: typ, format: format, data: data}
	return nil
}

func newSync() (*Synchronizer, *fakeWriter, *fakeAtoms) {
	writer := &fakeWriter{root: 1}
	atoms := &fakeAtoms{}
	return NewSynchronizer(writer, atoms), writer, atoms
}

func (f *fakeWriter) lookup(t *testing.T, atoms *fakeAtoms, name string) property {
	t.Helper()
	atom, _ := atoms.Get(name)
	prop, ok := f.props[atom]
	if !ok {
		t.Fatalf("property %s was not published", name)
	}
	return prop
}

func TestPublishClientList(t *testing.T) {
	s, writer, atoms := newSync()

	if err := s.PublishClientList([]xproto.Window{30, 10, 20}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	prop := writer.lookup(t, atoms, NetClientList)
	if prop.window != 1 {
		t.Fatalf("expected property on root, got window %d", prop.window)
	}
	if prop.typ != xproto.AtomWindow || prop.format != 32 {
		t.Fatalf("wrong type/format: %d/%d", prop.typ, prop.format)
	}

	want := make([]byte, 12)
	binary.LittleEndian.PutUint32(want[0:], 30)
	binary.LittleEndian.PutUint32(want[4:], 10)
	binary.LittleEndian.PutUint32(want[8:], 20)
	if !bytes.Equal(prop.data, want) {
		t.Fatalf("data %v, want %v", prop.data, want)
	}
}

func TestPublishActive_None(t *testing.T) {
	s, writer, atoms := newSync()

	if err := s.PublishActive(0); err != nil {
		t.Fatalf("publish: %v", err)
	}

	prop := writer.lookup(t, atoms, NetActiveWindow)
	if binary.LittleEndian.Uint32(prop.data) != 0 {
		t.Fatalf("expected none (0), got %v", prop.data)
	}
}

func TestPublishDesktopNames(t *testing.T) {
	s, writer, atoms := newSync()

	if err := s.PublishDesktopNames([]string{"main", "web"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	names := writer.lookup(t, atoms, NetDesktopNames)
	if want := []byte("main\x00web\x00"); !bytes.Equal(names.data, want) {
		t.Fatalf("names %q, want %q", names.data, want)
	}
	if names.format != 8 {
		t.Fatalf("names format %d, want 8", names.format)
	}

	count := writer.lookup(t, atoms, NetNumberOfDesktops)
	if binary.LittleEndian.Uint32(count.data) != 2 {
		t.Fatalf("count %v, want 2", count.data)
	}
}

func TestPublishSupported_CoversAllHints(t *testing.T) {
	s, writer, atoms := newSync()

	if err := s.PublishSupported(); err != nil {
		t.Fatalf("publish: %v", err)
	}

	prop := writer.lookup(t, atoms, NetSupported)
	if prop.typ != xproto.AtomAtom {
		t.Fatalf("type %d, want ATOM", prop.typ)
	}
	if got := len(prop.data) / 4; got != len(supported) {
		t.Fatalf("%d atoms published, want %d", got, len(supported))
	}
}

func TestPublish_Idempotent(t *testing.T) {
	s, writer, atoms := newSync()

	for i := 0; i < 3; i++ {
		if err := s.PublishClientList([]xproto.Window{7}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	prop := writer.lookup(t, atoms, NetClientList)
	if len(prop.data) != 4 {
		t.Fatalf("replace semantics violated, data %v", prop.data)
	}
}
