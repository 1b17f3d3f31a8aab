package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jezek/xgb/xproto"
	"github.com/thejerf/suture/v4"

	"github.com/schctl/nerdwm/internal/config"
	"github.com/schctl/nerdwm/internal/hints"
	"github.com/schctl/nerdwm/internal/layout"
	"github.com/schctl/nerdwm/internal/x11"
	"github.com/schctl/nerdwm/internal/xatom"
	"github.com/schctl/nerdwm/internal/xcursor"
)

// ErrQuit unwinds the event loop on an explicit quit binding. Callers treat
// it as a clean shutdown, not a failure.
var ErrQuit = errors.New("wm: quit requested")

const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// keyGrab pairs a grabbed keycode with the binding that requested it,
// preserving configuration order for the first-match tie-break.
type keyGrab struct {
	keycode xproto.Keycode
	mods    uint16
	action  config.Action
}

// Manager owns the connection, the workspaces and the dispatch loop. It is a
// suture service; the loop exits only on connection loss or a quit binding.
type Manager struct {
	conn     x11.Conn
	root     xproto.Window
	atoms    *xatom.Cache
	hints    *hints.Synchronizer
	cfg      config.Resolved
	keyGrabs []keyGrab
	log      *slog.Logger

	workspaces []*Workspace
	active     int

	snapMu sync.Mutex
	snap   Snapshot
}

// NewManager runs the startup sequence: root event mask (which fails when
// another manager is running), initial hints, adoption of pre-existing
// windows under a server grab, and finally the binding grabs.
func NewManager(conn x11.Conn, cfg config.Resolved) (*Manager, error) {
	root := conn.Root()
	atoms := xatom.NewCache(conn)

	m := &Manager{
		conn:  conn,
		root:  root,
		atoms: atoms,
		hints: hints.NewSynchronizer(conn, atoms),
		cfg:   cfg,
		log:   slog.With("component", "wm"),
	}

	// Substructure redirection routes child map/configure requests through
	// this process. Only one client may hold it per root.
	if err := conn.SetEventMask(root, rootEventMask); err != nil {
		return nil, fmt.Errorf("wm: root event mask (another window manager running?): %w", err)
	}
	if err := conn.SetCursor(root, xcursor.LeftPtr); err != nil {
		m.log.Debug("root cursor", "error", err)
	}

	if err := m.initWorkspaces(); err != nil {
		return nil, err
	}
	if err := m.publishInitialHints(); err != nil {
		return nil, fmt.Errorf("wm: initial hints: %w", err)
	}
	if err := m.adoptExisting(); err != nil {
		return nil, err
	}
	if err := m.grabBindings(); err != nil {
		return nil, err
	}

	if err := conn.Flush(); err != nil {
		return nil, err
	}

	m.updateSnapshot()
	m.log.Info("initialized", "workspaces", len(m.workspaces))
	return m, nil
}

func (m *Manager) initWorkspaces() error {
	width, height := m.conn.ScreenSize()
	region := layout.Rect{Width: width, Height: height}

	for _, ws := range m.cfg.Workspaces {
		lay, err := layout.New(ws.Layout)
		if err != nil {
			return fmt.Errorf("wm: workspace %q: %w", ws.Name, err)
		}

		m.workspaces = append(m.workspaces, NewWorkspace(m.conn, m.root, m.hints, m.atoms, WorkspaceConfig{
			Name:     ws.Name,
			Layout:   lay,
			Region:   region,
			Border:   m.cfg.Border,
			Gap:      m.cfg.Gap,
			Bindings: m.cfg.Bindings,
		}))
	}

	return nil
}

func (m *Manager) publishInitialHints() error {
	if err := m.hints.PublishSupported(); err != nil {
		return err
	}
	if err := m.hints.PublishName("nerdwm"); err != nil {
		return err
	}
	if err := m.hints.PublishPID(); err != nil {
		return err
	}
	if err := m.hints.PublishActive(0); err != nil {
		return err
	}

	names := make([]string, len(m.workspaces))
	for i, ws := range m.workspaces {
		names[i] = ws.Name
	}
	if err := m.hints.PublishDesktopNames(names); err != nil {
		return err
	}
	return m.hints.PublishCurrentDesktop(m.active)
}

// adoptExisting brackets the enumeration of pre-existing windows in a server
// grab so no window can map between the scan and its adoption.
func (m *Manager) adoptExisting() error {
	if err := m.conn.GrabServer(); err != nil {
		return fmt.Errorf("wm: grab server: %w", err)
	}
	defer func() {
		if err := m.conn.UngrabServer(); err != nil {
			m.log.Error("ungrab server", "error", err)
		}
	}()

	children, err := m.conn.Children(m.root)
	if err != nil {
		return fmt.Errorf("wm: query existing windows: %w", err)
	}

	ws := m.workspace()
	for _, child := range children {
		if err := ws.Push(child); err != nil {
			// The window may have vanished since the query; skip it.
			m.log.Debug("adopt existing", "window", child, "error", err)
			continue
		}
		m.log.Debug("found window", "window", child)
	}

	return nil
}

func (m *Manager) grabBindings() error {
	for _, b := range m.cfg.Bindings {
		if !b.IsKey() {
			if err := m.conn.GrabButton(m.root, b.Button, b.Mods); err != nil {
				return fmt.Errorf("wm: grab button %d: %w", b.Button, err)
			}
			continue
		}

		keycode, err := m.conn.KeycodeForKeysym(b.Keysym)
		if err != nil {
			return fmt.Errorf("wm: binding %q: %w", b.Action, err)
		}
		if err := m.conn.GrabKey(m.root, keycode, b.Mods); err != nil {
			return fmt.Errorf("wm: grab key %d: %w", keycode, err)
		}

		m.keyGrabs = append(m.keyGrabs, keyGrab{
			keycode: keycode,
			mods:    b.Mods,
			action:  b.Action,
		})
	}

	return nil
}

func (m *Manager) String() string {
	return "wm.Manager"
}

// Serve runs the dispatch loop until the connection drops or a quit binding
// fires. Implements suture.Service.
func (m *Manager) Serve(ctx context.Context) error {
	eventC := make(chan x11.Event)
	go x11.Pump(ctx, m.conn, eventC)

	for {
		if err := m.conn.Flush(); err != nil {
			return errors.Join(suture.ErrTerminateSupervisorTree, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventC:
			if !ok {
				// Connection gone; the server restores save-set members.
				return errors.Join(suture.ErrTerminateSupervisorTree, x11.ErrConnClosed)
			}

			if err := m.dispatch(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return errors.Join(suture.ErrTerminateSupervisorTree, err)
				}
				return err
			}
			m.updateSnapshot()
		}
	}
}

// dispatch routes one decoded event: structural events to the active
// workspace, input events through the binding tables.
func (m *Manager) dispatch(ev x11.Event) error {
	ws := m.workspace()

	switch ev := ev.(type) {
	case x11.WindowCreate:
		ws.OnCreate(ev)
	case x11.WindowMapRequest:
		ws.OnMapRequest(ev)
	case x11.WindowConfigureRequest:
		ws.OnConfigureRequest(ev)
	case x11.WindowUnmap:
		ws.OnUnmap(ev)
	case x11.WindowDestroy:
		ws.OnDestroy(ev)
	case x11.ButtonPress:
		ws.OnButtonPress(ev)
	case x11.ButtonRelease:
		ws.OnButtonRelease(ev)
	case x11.PointerMotion:
		ws.OnMotion(ev)
	case x11.KeyPress:
		return m.onKeyPress(ev)
	case x11.KeyRelease:
		// Key bindings act on press only.
	}

	return nil
}

func (m *Manager) onKeyPress(ev x11.KeyPress) error {
	for _, grab := range m.keyGrabs {
		if grab.keycode != ev.Keycode || grab.mods != ev.State&inputModMask {
			continue
		}

		switch grab.action {
		case config.ActionClose:
			m.workspace().CloseFocused()
		case config.ActionQuit:
			return ErrQuit
		case config.ActionWorkspaceNext:
			m.switchWorkspace(1)
		case config.ActionWorkspacePrev:
			m.switchWorkspace(-1)
		}
		return nil
	}

	return nil
}

// switchWorkspace hides the visible desktop and shows the one delta steps
// away, wrapping around the workspace list.
func (m *Manager) switchWorkspace(delta int) {
	if len(m.workspaces) < 2 {
		return
	}

	m.workspace().Hide()
	m.active = (m.active + delta + len(m.workspaces)) % len(m.workspaces)
	m.workspace().Show()

	if err := m.hints.PublishCurrentDesktop(m.active); err != nil {
		m.log.Debug("publish current desktop", "error", err)
	}

	m.log.Debug("switched workspace", "workspace", m.workspace().Name)
}

func (m *Manager) workspace() *Workspace {
	return m.workspaces[m.active]
}
