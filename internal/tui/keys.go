package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Invoices key.Binding
	Settings key.Binding

	// Actions
	Select  key.Binding
	Send    key.Binding
	Delete  key.Binding
	Refresh key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Invoices: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoices")),
	Settings: key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Send:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "send")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
