package wm

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/jezek/xgb/xproto"

	"github.com/schctl/nerdwm/internal/config"
	"github.com/schctl/nerdwm/internal/hints"
	"github.com/schctl/nerdwm/internal/layout"
	"github.com/schctl/nerdwm/internal/x11"
	"github.com/schctl/nerdwm/internal/xcursor"
)

// minDim is the floor for interactive resizing; the protocol rejects zero
// sized windows.
const minDim = 5

// inputModMask covers the eight modifier bits of an input event's state.
const inputModMask = xproto.ModMaskShift | xproto.ModMaskLock | xproto.ModMaskControl |
	xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5

// AtomGetter resolves atom names, typically an xatom.Cache.
type AtomGetter interface {
	Get(name string) (xproto.Atom, error)
}

// WorkspaceConfig carries the static parameters of one virtual desktop.
type WorkspaceConfig struct {
	Name     string
	Layout   layout.Layout
	Region   layout.Rect
	Border   config.ResolvedBorder
	Gap      uint16
	Bindings []config.ResolvedBinding
}

// Workspace is the focus-ordered client stack of one virtual desktop. The
// front of the stack is the focused client. All mutation happens on the event
// loop goroutine.
type Workspace struct {
	ID   uuid.UUID
	Name string

	conn  x11.Conn
	root  xproto.Window
	hints *hints.Synchronizer
	atoms AtomGetter
	log   *slog.Logger

	cfg     WorkspaceConfig
	clients []Client
	mode    Mode
	lastX   int16
	lastY   int16
}

func NewWorkspace(conn x11.Conn, root xproto.Window, hs *hints.Synchronizer, atoms AtomGetter, cfg WorkspaceConfig) *Workspace {
	return &Workspace{
		ID:    uuid.New(),
		Name:  cfg.Name,
		conn:  conn,
		root:  root,
		hints: hs,
		atoms: atoms,
		log:   slog.With("workspace", cfg.Name),
		cfg:   cfg,
	}
}

// Clients returns the internal window ids in stack order, front first.
func (w *Workspace) Clients() []xproto.Window {
	wins := make([]xproto.Window, len(w.clients))
	for i, c := range w.clients {
		wins[i] = c.Internal
	}
	return wins
}

// Mode returns the current interaction mode.
func (w *Workspace) Mode() Mode {
	return w.mode
}

// Push adopts win into the stack and focuses it.
func (w *Workspace) Push(win xproto.Window) error {
	client, err := Adopt(w.conn, w.root, win, w.cfg.Border)
	if err != nil {
		return err
	}

	w.clients = append(w.clients, client)
	w.focusUpdate(len(w.clients) - 1)
	w.arrange()
	w.publish()

	w.log.Debug("adopted window", "window", win, "frame", client.Frame)
	return nil
}

// Remove drops the client owning win from the stack and destroys its frame.
// graceful reparents the internal window back to the root; pass false when
// the window is already destroyed server side.
func (w *Workspace) Remove(win xproto.Window, graceful bool) {
	i, ok := w.findByInternal(win)
	if !ok {
		return
	}

	client := w.clients[i]
	w.clients = append(w.clients[:i], w.clients[i+1:]...)

	// Close the interaction if its target just went away.
	if w.mode.Target == win {
		w.exitMode()
	}

	if _, err := client.Release(w.conn, w.root, graceful); err != nil {
		w.log.Debug("release", "window", win, "error", err)
	}

	if i == 0 && len(w.clients) > 0 {
		w.focusUpdate(0)
	}
	w.arrange()
	w.publish()

	w.log.Debug("released window", "window", win, "graceful", graceful)
}

// focusUpdate moves clients[i] to the front of the stack and restyles the
// borders. It is the sole mutator of focus order.
func (w *Workspace) focusUpdate(i int) {
	client := w.clients[i]
	if i != 0 {
		w.clients = append(w.clients[:i], w.clients[i+1:]...)
		w.clients = append([]Client{client}, w.clients...)
	}

	if err := client.Restyle(w.conn, w.cfg.Border.Width, w.cfg.Border.Focused); err != nil {
		w.log.Debug("restyle", "window", client.Internal, "error", err)
	}
	if err := client.Raise(w.conn); err != nil {
		w.log.Debug("raise", "window", client.Internal, "error", err)
	}

	if i != 0 && len(w.clients) > 1 {
		prev := w.clients[1]
		if err := prev.Restyle(w.conn, w.cfg.Border.Width, w.cfg.Border.Unfocused); err != nil {
			w.log.Debug("restyle", "window", prev.Internal, "error", err)
		}
	}
}

func (w *Workspace) findByInternal(win xproto.Window) (int, bool) {
	for i, c := range w.clients {
		if c.Internal == win {
			return i, true
		}
	}
	return 0, false
}

func (w *Workspace) findByFrame(win xproto.Window) (int, bool) {
	for i, c := range w.clients {
		if c.Frame == win {
			return i, true
		}
	}
	return 0, false
}

// Structural event handlers
// -------------------------

func (w *Workspace) OnCreate(ev x11.WindowCreate) {
	w.log.Debug("window created", "window", ev.Window)
}

// OnMapRequest adopts the window unless it is already managed; duplicate map
// requests are a no-op.
func (w *Workspace) OnMapRequest(ev x11.WindowMapRequest) {
	if _, ok := w.findByInternal(ev.Window); ok {
		return
	}
	if err := w.Push(ev.Window); err != nil {
		w.log.Error("failed to adopt window", "window", ev.Window, "error", err)
	}
}

// OnConfigureRequest forwards the requested geometry to the window and, when
// managed, applies the same change to its frame so the border stays sized
// around the content.
func (w *Workspace) OnConfigureRequest(ev x11.WindowConfigureRequest) {
	mask, values := configureValues(ev)
	if mask == 0 {
		return
	}

	if i, ok := w.findByInternal(ev.Window); ok {
		if err := w.conn.Configure(w.clients[i].Frame, mask, values); err != nil {
			w.log.Debug("configure frame", "window", ev.Window, "error", err)
		}
	}

	if err := w.conn.Configure(ev.Window, mask, values); err != nil {
		w.log.Debug("configure", "window", ev.Window, "error", err)
	}
}

func (w *Workspace) OnUnmap(ev x11.WindowUnmap) {
	// The window still exists; hand it back to the root.
	w.Remove(ev.Window, true)
}

func (w *Workspace) OnDestroy(ev x11.WindowDestroy) {
	// The window is gone server side; reparenting would target a dead id.
	w.Remove(ev.Window, false)
}

// Input event handlers
// --------------------

// OnButtonPress focuses the pressed client and, when the chord matches a
// binding, starts the bound interaction. The first matching binding in
// configuration order wins.
func (w *Workspace) OnButtonPress(ev x11.ButtonPress) {
	w.lastX, w.lastY = ev.RootX, ev.RootY

	i, ok := w.findByFrame(ev.Child)
	if !ok {
		return
	}

	w.focusUpdate(i)
	w.publish()
	client := w.clients[0]

	for _, b := range w.cfg.Bindings {
		if b.IsKey() || b.Button != ev.Button || b.Mods != ev.State&inputModMask {
			continue
		}

		switch b.Action {
		case config.ActionMove:
			w.enterMode(ModeMoving, client.Internal)
		case config.ActionResize:
			w.enterMode(ModeResizing, client.Internal)
		case config.ActionClose:
			w.close(client)
		case config.ActionFocus:
			// Already focused above.
		}
		return
	}
}

// OnButtonRelease exits any interaction unconditionally so a stray release
// can never strand the mode machine.
func (w *Workspace) OnButtonRelease(x11.ButtonRelease) {
	w.exitMode()
}

// enterMode transitions into an interaction and swaps the root cursor to the
// drag shape for it.
func (w *Workspace) enterMode(kind ModeKind, target xproto.Window) {
	w.mode = Mode{Kind: kind, Target: target}

	glyph := uint16(xcursor.Fleur)
	if kind == ModeResizing {
		glyph = xcursor.Sizing
	}
	if err := w.conn.SetCursor(w.root, glyph); err != nil {
		w.log.Debug("cursor", "error", err)
	}
}

// exitMode returns to idle and restores the root cursor. A no-op when
// already idle.
func (w *Workspace) exitMode() {
	if w.mode.Kind == ModeIdle {
		return
	}
	w.mode = Mode{}

	if err := w.conn.SetCursor(w.root, xcursor.LeftPtr); err != nil {
		w.log.Debug("cursor", "error", err)
	}
}

// OnMotion applies the pointer delta since the last observed position to the
// client under manipulation.
func (w *Workspace) OnMotion(ev x11.PointerMotion) {
	dx := ev.RootX - w.lastX
	dy := ev.RootY - w.lastY
	w.lastX, w.lastY = ev.RootX, ev.RootY

	if w.mode.Kind == ModeIdle {
		return
	}

	i, ok := w.findByInternal(w.mode.Target)
	if !ok {
		// Target vanished mid-interaction.
		w.exitMode()
		return
	}
	client := w.clients[i]

	geom, err := w.conn.GetGeometry(client.Frame)
	if err != nil {
		w.log.Debug("geometry", "window", client.Frame, "error", err)
		return
	}

	switch w.mode.Kind {
	case ModeMoving:
		values := []uint32{
			uint32(int32(geom.X + dx)),
			uint32(int32(geom.Y + dy)),
		}
		if err := w.conn.Configure(client.Frame, xproto.ConfigWindowX|xproto.ConfigWindowY, values); err != nil {
			w.log.Debug("move", "window", client.Internal, "error", err)
		}
	case ModeResizing:
		values := []uint32{
			clampDim(int32(geom.Width) + int32(dx)),
			clampDim(int32(geom.Height) + int32(dy)),
		}
		mask := uint16(xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
		if err := w.conn.Configure(client.Frame, mask, values); err != nil {
			w.log.Debug("resize frame", "window", client.Internal, "error", err)
		}
		if err := w.conn.Configure(client.Internal, mask, values); err != nil {
			w.log.Debug("resize", "window", client.Internal, "error", err)
		}
	}
}

// Visibility
// ----------

// Show maps every frame, bottom of the stack first so stacking order is kept.
func (w *Workspace) Show() {
	for i := len(w.clients) - 1; i >= 0; i-- {
		if err := w.conn.Map(w.clients[i].Frame); err != nil {
			w.log.Debug("map", "window", w.clients[i].Internal, "error", err)
		}
	}
	w.publish()
}

// Hide unmaps every frame. Clients stay managed. Any in-flight interaction
// ends here: a hidden workspace receives no input events, so the release
// that would end it can never arrive.
func (w *Workspace) Hide() {
	w.exitMode()

	for _, c := range w.clients {
		if err := w.conn.Unmap(c.Frame); err != nil {
			w.log.Debug("unmap", "window", c.Internal, "error", err)
		}
	}
	w.publish()
}

// CloseFocused asks the focused client to close itself.
func (w *Workspace) CloseFocused() {
	if len(w.clients) == 0 {
		return
	}
	w.close(w.clients[0])
}

// close delivers WM_DELETE_WINDOW, falling back to destroying the window for
// clients that cannot take the message.
func (w *Workspace) close(client Client) {
	err := w.sendDelete(client.Internal)
	if err != nil {
		w.log.Debug("delete message failed, destroying", "window", client.Internal, "error", err)
		if err := w.conn.Destroy(client.Internal); err != nil {
			w.log.Debug("destroy", "window", client.Internal, "error", err)
		}
	}
}

func (w *Workspace) sendDelete(win xproto.Window) error {
	protocols, err := w.atoms.Get("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	del, err := w.atoms.Get("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}

	return w.conn.SendClientMessage(win, protocols, [5]uint32{
		uint32(del),
		uint32(xproto.TimeCurrentTime),
	})
}

// arrange delegates geometry to the layout and applies the result to both
// frame and internal window of every client.
func (w *Workspace) arrange() {
	rects := w.cfg.Layout.Arrange(w.cfg.Region, len(w.clients))
	if rects == nil {
		return
	}

	frameMask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	innerMask := uint16(xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)

	for i, c := range w.clients {
		r := layout.Inset(rects[i], w.cfg.Gap)
		width, height := frameDims(r, w.cfg.Border.Width)

		if err := w.conn.Configure(c.Frame, frameMask, []uint32{
			uint32(int32(r.X)), uint32(int32(r.Y)), width, height,
		}); err != nil {
			w.log.Debug("arrange frame", "window", c.Internal, "error", err)
		}
		if err := w.conn.Configure(c.Internal, innerMask, []uint32{width, height}); err != nil {
			w.log.Debug("arrange", "window", c.Internal, "error", err)
		}
	}
}

// publish pushes the stack and focus state out as session hints.
func (w *Workspace) publish() {
	if err := w.hints.PublishClientList(w.Clients()); err != nil {
		w.log.Debug("publish client list", "error", err)
	}

	var active xproto.Window
	if len(w.clients) > 0 {
		active = w.clients[0].Internal
	}
	if err := w.hints.PublishActive(active); err != nil {
		w.log.Debug("publish active", "error", err)
	}
}

func clampDim(v int32) uint32 {
	if v < minDim {
		return minDim
	}
	return uint32(v)
}

// frameDims subtracts the border from the target rect so the decorated
// outline fills it exactly.
func frameDims(r layout.Rect, border uint16) (uint32, uint32) {
	width, height := uint32(r.Width), uint32(r.Height)
	if b := 2 * uint32(border); width > b && height > b {
		width -= b
		height -= b
	}
	return width, height
}

// configureValues rebuilds a configure request's value list in the ascending
// bit order the protocol requires.
func configureValues(ev x11.WindowConfigureRequest) (uint16, []uint32) {
	var values []uint32
	mask := ev.ValueMask & (xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight |
		xproto.ConfigWindowBorderWidth | xproto.ConfigWindowSibling |
		xproto.ConfigWindowStackMode)

	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(ev.X)))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(ev.Y)))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(ev.Width))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(ev.Height))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(ev.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(ev.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(ev.StackMode))
	}

	return mask, values
}
