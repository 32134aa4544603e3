package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/tui/components"
	"github.com/mmcdole/tubegrab/internal/validate"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works from every state
	if key.Matches(msg, Keys.Quit) {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateDeclined:
		return m, nil

	case StateTerms:
		return m.handleTermsKey(msg)

	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help) || msg.String() == "q" {
			m.State = StateMain
		}
		return m, nil

	case StateConfirmReset:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return m.clearAllData()
		case key.Matches(msg, Keys.Deny):
			m.State = StateMain
		}
		return m, nil
	}

	// Route to the history modal if open
	if m.History.IsVisible() {
		return m.handleHistoryKey(msg)
	}

	if intent := intentForKey(msg); intent != IntentNone {
		return m.dispatch(intent)
	}

	// Esc on the main screen has nothing to close
	if key.Matches(msg, Keys.Escape) {
		return m, nil
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// dispatch performs a main-screen intent
func (m Model) dispatch(intent Intent) (tea.Model, tea.Cmd) {
	switch intent {
	case IntentQuit:
		return m, tea.Quit

	case IntentSubmit:
		return m.submitDownload()

	case IntentFetchInfo:
		if err := validate.CheckURL(m.URLInput.Value()); err != nil {
			cmd := m.notify(components.ToastError, domain.UserMessage(err, ""))
			return m, cmd
		}
		warn := m.tidyURL()
		fetch := m.startFetch()
		return m, batch(warn, fetch)

	case IntentToggleFormat:
		m.Format = m.Format.Toggle()
		return m, nil

	case IntentNextQuality:
		m.cycleQuality(1)
		return m, nil

	case IntentPrevQuality:
		m.cycleQuality(-1)
		return m, nil

	case IntentPaste:
		return m, ReadClipboardCmd(m.svc.Clipboard)

	case IntentClearInput:
		m.URLInput.Reset()
		m.Preview.Clear()
		m.svc.Metadata.ClearPreview()
		m.fetchSeq++ // drop any fetch still in flight
		return m, nil

	case IntentOpenVideo:
		url := m.URLInput.Value()
		if !validate.IsSupportedURL(url) {
			cmd := m.notify(components.ToastError, "Please enter a valid YouTube URL")
			return m, cmd
		}
		return m, OpenLinkCmd(func() error { return m.svc.Links.OpenVideo(url) })

	case IntentToggleTheme:
		theme, err := m.svc.Preferences.ToggleTheme()
		m.applyTheme(theme)
		if err != nil {
			m.logger.Warn("failed to save theme", "error", err)
		}
		label := "Light"
		if theme == domain.ThemeDark {
			label = "Dark"
		}
		cmd := m.notify(components.ToastInfo, label+" mode activated")
		return m, cmd

	case IntentShowHistory:
		m.History.SetSize(m.Width, m.Height)
		m.History.Show(m.svc.History.List())
		return m, nil

	case IntentReset:
		m.State = StateConfirmReset
		return m, nil

	case IntentHelp:
		m.State = StateHelp
		return m, nil
	}
	return m, nil
}

// submitDownload starts a download for the form, unless one is in flight
func (m Model) submitDownload() (tea.Model, tea.Cmd) {
	if m.Session.Busy() {
		return m, nil
	}

	if err := validate.CheckURL(m.URLInput.Value()); err != nil {
		cmd := m.notify(components.ToastError, domain.UserMessage(err, ""))
		return m, cmd
	}
	warn := m.tidyURL()
	req := m.downloadRequest()

	// Show "Starting..." before the first session event arrives
	m.Session = domain.Session{Generation: m.Session.Generation, State: domain.StateStarting}
	return m, batch(warn, StartDownloadCmd(m.svc.Downloads, req, m.previewFor(req.URL)))
}

// batch is tea.Batch that hands back a lone command unwrapped
func batch(cmds ...tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return tea.Batch(valid...)
}

func (m Model) handleTermsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var action components.TermsAction
	m.Terms, action = m.Terms.Update(msg)

	switch action {
	case components.TermsActionAccept:
		if err := m.svc.Preferences.AcceptTerms(); err != nil {
			m.logger.Error("failed to save terms acceptance", "error", err)
			cmd := m.notify(components.ToastError, "Error saving agreement. Please try again.")
			return m, cmd
		}
		m.State = StateMain
		focus := m.URLInput.Focus()
		toast := m.notify(components.ToastSuccess, "Terms accepted. Welcome to tubegrab!")
		return m, tea.Batch(focus, toast)

	case components.TermsActionBlocked:
		cmd := m.notify(components.ToastWarning, "Please tick the agreement box first")
		return m, cmd

	case components.TermsActionAskDecline:
		cmd := m.notify(components.ToastWarning, "You must accept the Terms of Service to use this tool.")
		return m, cmd

	case components.TermsActionDecline:
		m.State = StateDeclined
		return m, nil

	case components.TermsActionOpenTerms:
		return m, OpenLinkCmd(m.svc.Links.OpenTerms)

	case components.TermsActionOpenPrivacy:
		return m, OpenLinkCmd(m.svc.Links.OpenPrivacy)
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd    tea.Cmd
		result components.HistoryResult
	)
	m.History, cmd, result = m.History.Update(msg)

	switch result.Action {
	case components.HistoryActionRedownload:
		m.History.Hide()
		m.URLInput.SetValue(result.Entry.URL)
		if err := validate.CheckURL(result.Entry.URL); err != nil {
			cmd := m.notify(components.ToastError, domain.UserMessage(err, ""))
			return m, cmd
		}
		cmd := m.startFetch()
		return m, cmd

	case components.HistoryActionOpen:
		url := result.Entry.URL
		return m, OpenLinkCmd(func() error { return m.svc.Links.OpenVideo(url) })

	case components.HistoryActionClear:
		if err := m.svc.History.Clear(); err != nil {
			m.logger.Error("failed to clear history", "error", err)
			cmd := m.notify(components.ToastError, "Could not clear history")
			return m, cmd
		}
		m.refreshHistory()
		cmd := m.notify(components.ToastInfo, "History cleared")
		return m, cmd
	}
	return m, cmd
}

// clearAllData wipes local state and re-arms the terms gate
func (m Model) clearAllData() (tea.Model, tea.Cmd) {
	if err := m.svc.Preferences.ClearAll(); err != nil {
		m.logger.Error("failed to clear data", "error", err)
		m.State = StateMain
		cmd := m.notify(components.ToastError, "Could not clear data")
		return m, cmd
	}

	m.HistoryCount = m.svc.History.Count()
	m.History.Hide()
	m.URLInput.Reset()
	m.Preview.Clear()
	m.svc.Metadata.ClearPreview()
	m.fetchSeq++
	m.applyTheme(m.svc.Preferences.Theme())

	m.Terms.Reset()
	m.State = StateTerms
	cmd := m.notify(components.ToastInfo, "All data cleared")
	return m, cmd
}
