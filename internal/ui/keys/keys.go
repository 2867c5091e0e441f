package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by all views
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding // works inside text inputs too
	Tab       key.Binding
	Save      key.Binding
	New       key.Binding
	Delete    key.Binding
	Search    key.Binding
	Filter    key.Binding
	Category  key.Binding
	Status    key.Binding
	Deadlines key.Binding
	Stats     key.Binding
	Help      key.Binding

	// Video detail view
	AddTask    key.Binding
	ToggleTask key.Binding
	Time       key.Binding
	Notes      key.Binding

	// Deadlines view
	MoreDays key.Binding
	LessDays key.Binding
}

// DefaultKeyMap returns the default key bindings
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
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new video"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "status filter"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status"),
		),
		Deadlines: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upcoming"),
		),
		Stats: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "stats"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		AddTask: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		ToggleTask: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle task"),
		),
		Time: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "log time"),
		),
		Notes: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit notes"),
		),
		MoreDays: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more days"),
		),
		LessDays: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer days"),
		),
	}
}
