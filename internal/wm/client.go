// Package wm implements the window lifecycle and interaction state machine:
// client adoption into decorated frames, per-workspace focus stacks, the
// pointer mode machine, and the manager event loop that drives them.
package wm

import (
	"errors"
	"fmt"

	"github.com/jezek/xgb/xproto"

	"github.com/schctl/nerdwm/internal/config"
	"github.com/schctl/nerdwm/internal/x11"
)

// Client is one managed application window together with the decoration frame
// wrapping it. The frame is always a direct child of the root; the internal
// window is always the frame's sole child.
type Client struct {
	// Internal is the application's own window.
	Internal xproto.Window
	// Frame is the decoration window owned by the manager.
	Frame xproto.Window
}

// Adopt wraps win in a new frame. The frame joins the save-set before the
// reparent so an abnormal manager exit can never strand the window.
func Adopt(conn x11.Conn, root, win xproto.Window, border config.ResolvedBorder) (Client, error) {
	geom, err := conn.GetGeometry(win)
	if err != nil {
		return Client{}, fmt.Errorf("adopt %#x: geometry: %w", win, err)
	}

	frame, err := conn.CreateWindow(root, geom, border.Width, border.Unfocused,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify)
	if err != nil {
		return Client{}, fmt.Errorf("adopt %#x: frame: %w", win, err)
	}

	if err := conn.SetSaveSet(frame, true); err != nil {
		return Client{}, fmt.Errorf("adopt %#x: save-set: %w", win, err)
	}
	if err := conn.Reparent(win, frame); err != nil {
		return Client{}, fmt.Errorf("adopt %#x: reparent: %w", win, err)
	}

	if err := conn.Map(frame); err != nil {
		return Client{}, fmt.Errorf("adopt %#x: map frame: %w", win, err)
	}
	if err := conn.Map(win); err != nil {
		return Client{}, fmt.Errorf("adopt %#x: map: %w", win, err)
	}

	return Client{Internal: win, Frame: frame}, nil
}

// Release tears the frame down and returns the internal window id. When
// reparentToRoot is false the internal window is assumed destroyed server
// side and the reparent is skipped. The reparent happens before the save-set
// removal, which happens before the frame destroy; breaking that order races
// the save-set against frame teardown.
func (c Client) Release(conn x11.Conn, root xproto.Window, reparentToRoot bool) (xproto.Window, error) {
	var errs []error

	if err := conn.Unmap(c.Frame); err != nil {
		errs = append(errs, err)
	}
	if reparentToRoot {
		if err := conn.Reparent(c.Internal, root); err != nil {
			errs = append(errs, err)
		}
	}
	if err := conn.SetSaveSet(c.Frame, false); err != nil {
		errs = append(errs, err)
	}
	if err := conn.Destroy(c.Frame); err != nil {
		errs = append(errs, err)
	}

	return c.Internal, errors.Join(errs...)
}

// Restyle applies border attributes to the frame only, never the internal
// window.
func (c Client) Restyle(conn x11.Conn, width uint16, color uint32) error {
	if err := conn.SetBorderWidth(c.Frame, width); err != nil {
		return err
	}
	return conn.SetBorderColor(c.Frame, color)
}

// Raise puts the frame on top of the stacking order.
func (c Client) Raise(conn x11.Conn) error {
	return conn.Raise(c.Frame)
}
