package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	NextTab  key.Binding
	Back     key.Binding

	// Filters
	Search key.Binding
	Status key.Binding
	Dates  key.Binding

	// Sorting
	SortDate   key.Binding
	SortAmount key.Binding
	SortStatus key.Binding
	SortID     key.Binding

	// Application
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("Tab", "switch tab"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back to list"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status"),
		),
		Dates: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "date range"),
		),

		SortDate: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort by date"),
		),
		SortAmount: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort by amount"),
		),
		SortStatus: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort by status"),
		),
		SortID: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "sort by id"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Search, k.Status, k.PrevPage, k.NextPage, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Search, k.Status, k.Dates, k.Refresh},
		{k.SortDate, k.SortAmount, k.SortStatus, k.SortID},
		{k.NextTab, k.Back, k.Help, k.Quit},
	}
}
