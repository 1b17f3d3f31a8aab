package x11

import (
	"errors"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestDecode_Structural(t *testing.T) {
	tests := []struct {
		name string
		in   xgb.Event
		want Event
	}{
		{
			name: "map request",
			in:   xproto.MapRequestEvent{Parent: 1, Window: 42},
			want: WindowMapRequest{Window: 42},
		},
		{
			name: "destroy notify",
			in:   xproto.DestroyNotifyEvent{Event: 1, Window: 42},
			want: WindowDestroy{Window: 42},
		},
		{
			name: "unmap notify",
			in:   xproto.UnmapNotifyEvent{Event: 1, Window: 42},
			want: WindowUnmap{Window: 42},
		},
		{
			name: "create notify",
			in:   xproto.CreateNotifyEvent{Parent: 1, Window: 42},
			want: WindowCreate{Window: 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecode_ConfigureRequestCarriesGeometry(t *testing.T) {
	got, err := Decode(xproto.ConfigureRequestEvent{
		Window:    7,
		X:         10,
		Y:         -20,
		Width:     300,
		Height:    200,
		ValueMask: xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	req, ok := got.(WindowConfigureRequest)
	if !ok {
		t.Fatalf("got %T, want WindowConfigureRequest", got)
	}
	if req.Window != 7 || req.X != 10 || req.Y != -20 || req.Width != 300 || req.Height != 200 {
		t.Fatalf("geometry mismatch: %#v", req)
	}
}

func TestDecode_InputEvents(t *testing.T) {
	got, err := Decode(xproto.ButtonPressEvent{Detail: 1, State: xproto.ModMask4, Child: 9, RootX: 50, RootY: 60})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	press, ok := got.(ButtonPress)
	if !ok {
		t.Fatalf("got %T, want ButtonPress", got)
	}
	if press.Button != 1 || press.State != xproto.ModMask4 || press.Child != 9 {
		t.Fatalf("press mismatch: %#v", press)
	}

	got, err = Decode(xproto.MotionNotifyEvent{RootX: 55, RootY: 54})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if motion := got.(PointerMotion); motion.RootX != 55 || motion.RootY != 54 {
		t.Fatalf("motion mismatch: %#v", motion)
	}
}

func TestDecode_UnknownEvent(t *testing.T) {
	_, err := Decode(xproto.ExposeEvent{Window: 3})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}
