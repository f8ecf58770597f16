package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	PickUp key.Binding
	Drop   key.Binding
	Cancel key.Binding
	Done   key.Binding
	Open   key.Binding
	Back   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		PickUp: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Done:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:   key.NewBinding(key.WithKeys("backspace", "esc"), key.WithHelp("esc", "lists")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// reorderKeys adapts keyMap to help.KeyMap for the reorder view; dragging swaps
// the visible bindings.
type reorderKeys struct {
	keyMap
	dragging bool
}

func (k reorderKeys) ShortHelp() []key.Binding {
	if k.dragging {
		return []key.Binding{k.Up, k.Down, k.Drop, k.Cancel}
	}
	return []key.Binding{k.Up, k.Down, k.PickUp, k.Done, k.Back, k.Help, k.Quit}
}

func (k reorderKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PickUp, k.Drop, k.Cancel},
		{k.Done, k.Reload, k.Back, k.Help, k.Quit},
	}
}

type pickerKeys struct{ keyMap }

func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Reload, k.Quit}
}

func (k pickerKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
