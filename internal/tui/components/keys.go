package components

import "github.com/charmbracelet/bubbles/key"

// HistoryModalKeyMap defines key bindings for the history modal
type HistoryModalKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	Enter    key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Open     key.Binding
	Escape   key.Binding
	Confirm  key.Binding
	Deny     key.Binding
	NextItem key.Binding
	PrevItem key.Binding
}

// DefaultHistoryModalKeyMap returns the default history modal key bindings
func DefaultHistoryModalKeyMap() HistoryModalKeyMap {
	return HistoryModalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "download again"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear history"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
		// Filter mode uses arrows only so typed letters reach the input
		NextItem: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
		),
		PrevItem: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
		),
	}
}

// HistoryModalKeys is the global history modal key map
var HistoryModalKeys = DefaultHistoryModalKeyMap()

// TermsModalKeyMap defines key bindings for the terms agreement gate
type TermsModalKeyMap struct {
	Toggle      key.Binding
	Accept      key.Binding
	Decline     key.Binding
	OpenTerms   key.Binding
	OpenPrivacy key.Binding
	Confirm     key.Binding
	Deny        key.Binding
}

// DefaultTermsModalKeyMap returns the default terms gate key bindings
func DefaultTermsModalKeyMap() TermsModalKeyMap {
	return TermsModalKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle agreement"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept"),
		),
		Decline: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "decline"),
		),
		OpenTerms: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "read terms"),
		),
		OpenPrivacy: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "read privacy policy"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes, decline"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "go back"),
		),
	}
}

// TermsModalKeys is the global terms gate key map
var TermsModalKeys = DefaultTermsModalKeyMap()
