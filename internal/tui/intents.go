package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Intent is a user action on the main screen, decoupled from the key that
// triggered it.
type Intent int

const (
	IntentNone Intent = iota
	IntentSubmit
	IntentFetchInfo
	IntentToggleFormat
	IntentNextQuality
	IntentPrevQuality
	IntentPaste
	IntentClearInput
	IntentOpenVideo
	IntentToggleTheme
	IntentShowHistory
	IntentReset
	IntentHelp
	IntentQuit
)

var intentNames = map[Intent]string{
	IntentNone:         "none",
	IntentSubmit:       "submit",
	IntentFetchInfo:    "fetch-info",
	IntentToggleFormat: "toggle-format",
	IntentNextQuality:  "next-quality",
	IntentPrevQuality:  "prev-quality",
	IntentPaste:        "paste",
	IntentClearInput:   "clear-input",
	IntentOpenVideo:    "open-video",
	IntentToggleTheme:  "toggle-theme",
	IntentShowHistory:  "show-history",
	IntentReset:        "reset",
	IntentHelp:         "help",
	IntentQuit:         "quit",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// intentForKey maps a main-screen key to an intent. IntentNone means the
// key belongs to the URL field.
func intentForKey(msg tea.KeyMsg) Intent {
	switch {
	case key.Matches(msg, Keys.Quit):
		return IntentQuit
	case key.Matches(msg, Keys.Submit):
		return IntentSubmit
	case key.Matches(msg, Keys.FetchInfo):
		return IntentFetchInfo
	case key.Matches(msg, Keys.ToggleFormat):
		return IntentToggleFormat
	case key.Matches(msg, Keys.NextQuality):
		return IntentNextQuality
	case key.Matches(msg, Keys.PrevQuality):
		return IntentPrevQuality
	case key.Matches(msg, Keys.Paste):
		return IntentPaste
	case key.Matches(msg, Keys.ClearInput):
		return IntentClearInput
	case key.Matches(msg, Keys.OpenVideo):
		return IntentOpenVideo
	case key.Matches(msg, Keys.ToggleTheme):
		return IntentToggleTheme
	case key.Matches(msg, Keys.History):
		return IntentShowHistory
	case key.Matches(msg, Keys.Reset):
		return IntentReset
	case key.Matches(msg, Keys.Help):
		return IntentHelp
	}
	return IntentNone
}
