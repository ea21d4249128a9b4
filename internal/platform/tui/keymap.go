package tui

import "github.com/charmbracelet/bubbles/key"

// BoardKeyMap defines the key bindings for the board screen.
type BoardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Back      key.Binding
	Forward   key.Binding
	Add       key.Binding
	Remove    key.Binding
	Reset     key.Binding
	Randomize key.Binding
	Simulate  key.Binding
	Dismiss   key.Binding
	Gifters   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Forward, k.Simulate, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Forward},
		{k.Add, k.Remove, k.Reset, k.Randomize},
		{k.Simulate, k.Dismiss, k.Gifters},
		{k.Help, k.Quit},
	}
}

// DefaultBoardKeyMap returns the operator key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "select"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "move -1"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "move +1"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add player"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove player"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset board"),
		),
		Randomize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "shuffle bonuses"),
		),
		Simulate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "test gift"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "dismiss alert"),
		),
		Gifters: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "top gifters"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ViewerKeyMap returns the bindings available to read-only viewers.
func ViewerKeyMap() BoardKeyMap {
	k := DefaultBoardKeyMap()
	for _, b := range []*key.Binding{
		&k.Back, &k.Forward, &k.Add, &k.Remove, &k.Reset,
		&k.Randomize, &k.Simulate, &k.Dismiss, &k.Gifters,
	} {
		b.SetEnabled(false)
	}
	return k
}
