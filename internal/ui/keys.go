package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap satisfies help.KeyMap so the footer and the help screen are drawn
// from the same bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Expand key.Binding
	Open   key.Binding
	Parent key.Binding
	Rescan key.Binding
	Order  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fold/unfold")),
		Open:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "descend")),
		Parent: key.NewBinding(key.WithKeys("left", "h", "backspace"), key.WithHelp("←/h", "parent")),
		Rescan: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan root")),
		Order:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "cycle order")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Open, keys.Parent, keys.Order, keys.Rescan, keys.Help, keys.Quit}
}

func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.Expand},
		{keys.Open, keys.Parent},
		{keys.Order, keys.Rescan},
		{keys.Help, keys.Quit},
	}
}
