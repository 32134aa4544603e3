package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the main screen
type KeyMap struct {
	// Download form
	Submit       key.Binding
	FetchInfo    key.Binding
	ToggleFormat key.Binding
	NextQuality  key.Binding
	PrevQuality  key.Binding
	Paste        key.Binding
	ClearInput   key.Binding
	OpenVideo    key.Binding

	// Application
	ToggleTheme key.Binding
	History     key.Binding
	Reset       key.Binding
	Help        key.Binding
	Escape      key.Binding
	Quit        key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings. Everything on the main
// screen uses a modifier so plain keys reach the URL field.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "download"),
		),
		FetchInfo: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "fetch info"),
		),
		ToggleFormat: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "video/audio"),
		),
		NextQuality: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "next quality"),
		),
		PrevQuality: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "previous quality"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("C-v", "paste"),
		),
		ClearInput: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		OpenVideo: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "open in browser"),
		),

		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("C-h", "history"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "clear all data"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
