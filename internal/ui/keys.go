package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit         key.Binding
	Help         key.Binding
	CycleTheme   key.Binding
	ToggleDetail key.Binding
	Logs         key.Binding
	Escape       key.Binding

	// Table navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Collection
	Sort    key.Binding
	Filters key.Binding
	Reload  key.Binding

	// Records
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Detail selection
	SpeciesDetail key.Binding
	ZooDetail     key.Binding
	ClearDetail   key.Binding

	// Modals
	Confirm  key.Binding
	Save     key.Binding
	Clear    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Yes      key.Binding
	No       key.Binding
	PickPrev key.Binding
	PickNext key.Binding

	// Logs overlay
	ToggleLevel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleDetail: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Show/hide detail pane"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Client log"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Previous animal"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Next animal"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Previous cell"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Next cell"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First animal"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last animal"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open species/zoo cell, edit otherwise"),
		),

		Sort: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "Sort by column"),
		),
		Filters: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filters"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		New: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add animal"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit animal"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete animal"),
		),

		SpeciesDetail: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Species detail"),
		),
		ZooDetail: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "Zoo detail"),
		),
		ClearDetail: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear detail"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Clear fields"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "No"),
		),
		PickPrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "Previous option"),
		),
		PickNext: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "Next option"),
		),

		ToggleLevel: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Warnings only"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom, k.Open},
		{k.Sort, k.Filters, k.Reload},
		{k.New, k.Edit, k.Delete},
		{k.SpeciesDetail, k.ZooDetail, k.ClearDetail, k.ToggleDetail},
		{k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
