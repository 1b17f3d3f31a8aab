package config

var defaultConfig = Config{
	Workspaces: []Workspace{
		{Name: "main", Layout: "floating"},
		{Name: "alt", Layout: "floating"},
	},
	Gap: 0,
	Border: Border{
		Width:     2,
		Focused:   "#89b4fa",
		Unfocused: "#45475a",
	},
	Bindings: []Binding{
		{Action: "move", Button: 1, Modifiers: []string{"mod4"}},
		{Action: "resize", Button: 3, Modifiers: []string{"mod4"}},
		{Action: "close", Key: "q", Modifiers: []string{"mod4"}},
		{Action: "workspace-next", Key: "n", Modifiers: []string{"mod4"}},
		{Action: "workspace-prev", Key: "p", Modifiers: []string{"mod4"}},
		{Action: "quit", Key: "e", Modifiers: []string{"mod4", "shift"}},
	},
}

type Config struct {
	Workspaces []Workspace `yaml:"workspaces"`
	Gap        uint16      `yaml:"gap"`
	Border     Border      `yaml:"border"`
	Bindings   []Binding   `yaml:"bindings"`
}

type Workspace struct {
	Name   string `yaml:"name"`
	Layout string `yaml:"layout"` // [floating, grid, monocle]
}

type Border struct {
	Width     uint16 `yaml:"width"`
	Focused   string `yaml:"focused"`
	Unfocused string `yaml:"unfocused"`
}

// Binding maps an input chord to a window manager action. Key and Button are
// mutually exclusive; declaration order is the tie-break order.
type Binding struct {
	Action    string   `yaml:"action"`
	Key       string   `yaml:"key,omitempty"`
	Button    byte     `yaml:"button,omitempty"`
	Modifiers []string `yaml:"modifiers"`
}
