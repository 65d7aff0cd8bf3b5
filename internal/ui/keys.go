package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the dashboard and the search surface
type keyMap struct {
	Open   key.Binding
	Close  key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Help   key.Binding
	Quit   key.Binding
	// QuitIdle only applies while the search surface is closed, where
	// letters are not query input
	QuitIdle key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("ctrl+k", "/"),
			key.WithHelp("ctrl+k", "search"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/ctrl+p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "tab"),
			key.WithHelp("↓/ctrl+n", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		QuitIdle: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// searchKeys is the help.KeyMap shown while the surface is open
type searchKeys struct{ keyMap }

func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Close, k.Help}
}

func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Close, k.Help, k.Quit},
	}
}

// idleKeys is the help.KeyMap shown on the dashboard
type idleKeys struct{ keyMap }

func (k idleKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.QuitIdle}
}

func (k idleKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Open, k.QuitIdle, k.Quit}}
}
