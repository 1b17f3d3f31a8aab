package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jezek/xgb/xproto"
)

// Action is a semantic window manager operation a binding can trigger.
type Action string

const (
	ActionMove          Action = "move"
	ActionResize        Action = "resize"
	ActionFocus         Action = "focus"
	ActionClose         Action = "close"
	ActionQuit          Action = "quit"
	ActionWorkspaceNext Action = "workspace-next"
	ActionWorkspacePrev Action = "workspace-prev"
)

var actions = map[string]Action{
	string(ActionMove):          ActionMove,
	string(ActionResize):        ActionResize,
	string(ActionFocus):         ActionFocus,
	string(ActionClose):         ActionClose,
	string(ActionQuit):          ActionQuit,
	string(ActionWorkspaceNext): ActionWorkspaceNext,
	string(ActionWorkspacePrev): ActionWorkspacePrev,
}

// ResolvedBinding is a Binding with names resolved into protocol values.
// Button is zero for key bindings; Keysym is zero for button bindings.
type ResolvedBinding struct {
	Action Action
	Keysym uint32
	Button xproto.Button
	Mods   uint16
}

// IsKey reports whether the binding triggers on a key rather than a button.
func (b ResolvedBinding) IsKey() bool { return b.Button == 0 }

// Resolved is the parsed configuration handed to the manager.
type Resolved struct {
	Workspaces []Workspace
	Gap        uint16
	Border     ResolvedBorder
	// Bindings keeps declaration order; the first match wins on overlap.
	Bindings []ResolvedBinding
}

type ResolvedBorder struct {
	Width     uint16
	Focused   uint32
	Unfocused uint32
}

// Parse resolves the raw file model. Any unknown action, key, modifier or
// malformed color is a startup-fatal configuration error.
func Parse(cfg Config) (Resolved, error) {
	if len(cfg.Workspaces) == 0 {
		cfg.Workspaces = defaultConfig.Workspaces
	}

	// An omitted color falls back to the default palette so focused and
	// unfocused borders never collapse into the same shade.
	if cfg.Border.Focused == "" {
		cfg.Border.Focused = defaultConfig.Border.Focused
	}
	if cfg.Border.Unfocused == "" {
		cfg.Border.Unfocused = defaultConfig.Border.Unfocused
	}

	focused, err := parseColor(cfg.Border.Focused)
	if err != nil {
		return Resolved{}, fmt.Errorf("border.focused: %w", err)
	}
	unfocused, err := parseColor(cfg.Border.Unfocused)
	if err != nil {
		return Resolved{}, fmt.Errorf("border.unfocused: %w", err)
	}

	resolved := Resolved{
		Workspaces: cfg.Workspaces,
		Gap:        cfg.Gap,
		Border: ResolvedBorder{
			Width:     cfg.Border.Width,
			Focused:   focused,
			Unfocused: unfocused,
		},
	}

	for i, b := range cfg.Bindings {
		rb, err := parseBinding(b)
		if err != nil {
			return Resolved{}, fmt.Errorf("bindings[%d]: %w", i, err)
		}
		resolved.Bindings = append(resolved.Bindings, rb)
	}

	return resolved, nil
}

func parseBinding(b Binding) (ResolvedBinding, error) {
	action, ok := actions[b.Action]
	if !ok {
		return ResolvedBinding{}, fmt.Errorf("unknown action %q", b.Action)
	}

	if (b.Key == "") == (b.Button == 0) {
		return ResolvedBinding{}, fmt.Errorf("exactly one of key or button must be set")
	}

	rb := ResolvedBinding{
		Action: action,
		Button: xproto.Button(b.Button),
	}

	if b.Key != "" {
		sym, ok := keysyms[strings.ToLower(b.Key)]
		if !ok {
			return ResolvedBinding{}, fmt.Errorf("unknown key %q", b.Key)
		}
		rb.Keysym = sym
	}

	for _, name := range b.Modifiers {
		mask, ok := modifiers[strings.ToLower(name)]
		if !ok {
			return ResolvedBinding{}, fmt.Errorf("unknown modifier %q", name)
		}
		rb.Mods |= mask
	}

	return rb, nil
}

func parseColor(s string) (uint32, error) {
	hexStr := strings.TrimPrefix(s, "#")
	if len(hexStr) != 6 {
		return 0, fmt.Errorf("%q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return uint32(v), nil
}
