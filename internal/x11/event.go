package x11

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// ErrUnknownEvent reports a wire event the manager has no handler for.
var ErrUnknownEvent = errors.New("x11: unknown event")

// Event is the closed union of protocol events the window manager consumes.
type Event interface {
	isEvent()
}

type (
	WindowCreate struct {
		Window xproto.Window
	}

	WindowDestroy struct {
		Window xproto.Window
	}

	WindowMapRequest struct {
		Window xproto.Window
	}

	WindowUnmap struct {
		Window xproto.Window
	}

	WindowConfigureRequest struct {
		Window      xproto.Window
		X           int16
		Y           int16
		Width       uint16
		Height      uint16
		BorderWidth uint16
		Sibling     xproto.Window
		StackMode   byte
		ValueMask   uint16
	}

	ButtonPress struct {
		Button xproto.Button
		State  uint16
		Child  xproto.Window
		RootX  int16
		RootY  int16
	}

	ButtonRelease struct {
		Button xproto.Button
		State  uint16
		Child  xproto.Window
		RootX  int16
		RootY  int16
	}

	KeyPress struct {
		Keycode xproto.Keycode
		State   uint16
		Child   xproto.Window
	}

	KeyRelease struct {
		Keycode xproto.Keycode
		State   uint16
		Child   xproto.Window
	}

	PointerMotion struct {
		RootX int16
		RootY int16
	}
)

func (WindowCreate) isEvent()           {}
func (WindowDestroy) isEvent()          {}
func (WindowMapRequest) isEvent()       {}
func (WindowUnmap) isEvent()            {}
func (WindowConfigureRequest) isEvent() {}
func (ButtonPress) isEvent()            {}
func (ButtonRelease) isEvent()          {}
func (KeyPress) isEvent()               {}
func (KeyRelease) isEvent()             {}
func (PointerMotion) isEvent()          {}

// Decode maps a wire event onto the closed union by validated tag dispatch.
func Decode(ev xgb.Event) (Event, error) {
	switch ev := ev.(type) {
	case xproto.CreateNotifyEvent:
		return WindowCreate{Window: ev.Window}, nil
	case xproto.DestroyNotifyEvent:
		return WindowDestroy{Window: ev.Window}, nil
	case xproto.MapRequestEvent:
		return WindowMapRequest{Window: ev.Window}, nil
	case xproto.UnmapNotifyEvent:
		return WindowUnmap{Window: ev.Window}, nil
	case xproto.ConfigureRequestEvent:
		return WindowConfigureRequest{
			Window:      ev.Window,
			X:           ev.X,
			Y:           ev.Y,
			Width:       ev.Width,
			Height:      ev.Height,
			BorderWidth: ev.BorderWidth,
			Sibling:     ev.Sibling,
			StackMode:   ev.StackMode,
			ValueMask:   ev.ValueMask,
		}, nil
	case xproto.ButtonPressEvent:
		return ButtonPress{
			Button: ev.Detail,
			State:  ev.State,
			Child:  ev.Child,
			RootX:  ev.RootX,
			RootY:  ev.RootY,
		}, nil
	case xproto.ButtonReleaseEvent:
		return ButtonRelease{
			Button: ev.Detail,
			State:  ev.State,
			Child:  ev.Child,
			RootX:  ev.RootX,
			RootY:  ev.RootY,
		}, nil
	case xproto.KeyPressEvent:
		return KeyPress{Keycode: ev.Detail, State: ev.State, Child: ev.Child}, nil
	case xproto.KeyReleaseEvent:
		return KeyRelease{Keycode: ev.Detail, State: ev.State, Child: ev.Child}, nil
	case xproto.MotionNotifyEvent:
		return PointerMotion{RootX: ev.RootX, RootY: ev.RootY}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

// Pump forwards decoded events into eventC until the connection closes or ctx
// is done. The channel is closed on exit so the consumer observes shutdown.
func Pump(ctx context.Context, conn Conn, eventC chan<- Event) {
	defer close(eventC)
	log := slog.With("func", "x11.Pump")

	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			if errors.Is(err, ErrConnClosed) {
				log.Debug("exit: connection closed")
				return
			}
			if errors.Is(err, ErrUnknownEvent) {
				log.Debug("ignoring event", "error", err)
				continue
			}
			// Protocol errors arrive on the event stream; the target
			// window usually vanished before the request landed.
			log.Debug("protocol error", "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- ev:
		}
	}
}
