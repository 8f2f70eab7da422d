package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the leaderboard keyboard shortcuts.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding
	Me   key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Me: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "jump to my rank"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
