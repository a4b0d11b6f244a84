package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Sidebar
	Up          key.Binding
	Down        key.Binding
	PrevSection key.Binding
	NextSection key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	SelectNone  key.Binding
	Filter      key.Binding
	MinYearDown key.Binding
	MinYearUp   key.Binding
	MaxYearDown key.Binding
	MaxYearUp   key.Binding

	// Panels
	NextTab  key.Binding
	PrevTab  key.Binding
	JumpTab  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Actions
	Reload   key.Binding
	Export   key.Binding
	ExportAs key.Binding
	Quit     key.Binding
	Help     key.Binding
	Escape   key.Binding
	Enter    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Sidebar
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous filter"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next filter"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		SelectNone: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "select none"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find country"),
		),
		MinYearDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "min year -1"),
		),
		MinYearUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "min year +1"),
		),
		MaxYearDown: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "max year -1"),
		),
		MaxYearUp: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "max year +1"),
		),

		// Panels
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous panel"),
		),
		JumpTab: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to panel"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),

		// Actions
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload dataset"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		ExportAs: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export to..."),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "toggle match"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
