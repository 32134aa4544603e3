package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/tubegrab/internal/tui/styles"
)

// TermsAction is what the app should do after a terms gate key
type TermsAction int

const (
	TermsActionNone TermsAction = iota
	TermsActionAccept
	TermsActionBlocked    // accept pressed with the box unchecked
	TermsActionAskDecline // decline pressed, confirmation now showing
	TermsActionDecline
	TermsActionOpenTerms
	TermsActionOpenPrivacy
)

// TermsModal is the agreement gate shown until the terms are accepted
type TermsModal struct {
	checked    bool
	confirming bool
	termsURL   string
	privacyURL string
}

// NewTermsModal creates the gate with links to the policy pages
func NewTermsModal(termsURL, privacyURL string) TermsModal {
	return TermsModal{termsURL: termsURL, privacyURL: privacyURL}
}

// Reset unchecks the box and drops any pending decline prompt
func (t *TermsModal) Reset() {
	t.checked = false
	t.confirming = false
}

// Checked returns whether the acknowledgment box is ticked
func (t TermsModal) Checked() bool {
	return t.checked
}

// IsConfirming returns whether the decline prompt is up
func (t TermsModal) IsConfirming() bool {
	return t.confirming
}

// Update handles a key and reports what the app should do
func (t TermsModal) Update(msg tea.Msg) (TermsModal, TermsAction) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, TermsActionNone
	}
	keys := TermsModalKeys

	if t.confirming {
		switch {
		case key.Matches(keyMsg, keys.Confirm):
			t.confirming = false
			return t, TermsActionDecline
		case key.Matches(keyMsg, keys.Deny):
			t.confirming = false
		}
		return t, TermsActionNone
	}

	switch {
	case key.Matches(keyMsg, keys.Toggle):
		t.checked = !t.checked
	case key.Matches(keyMsg, keys.Accept):
		if !t.checked {
			return t, TermsActionBlocked
		}
		return t, TermsActionAccept
	case key.Matches(keyMsg, keys.Decline):
		t.confirming = true
		return t, TermsActionAskDecline
	case key.Matches(keyMsg, keys.OpenTerms):
		return t, TermsActionOpenTerms
	case key.Matches(keyMsg, keys.OpenPrivacy):
		return t, TermsActionOpenPrivacy
	}
	return t, TermsActionNone
}

// View renders the gate modal
func (t TermsModal) View(width int) string {
	modalWidth := min(max(width-8, 40), 72)
	contentWidth := modalWidth - 6

	wrap := lipgloss.NewStyle().Width(contentWidth)

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Terms of Service Agreement"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(styles.SubtitleStyle.Render(
		"Before using this tool, please read and accept the Terms of Service and Privacy Policy.")))
	b.WriteString("\n\n")

	bullets := []string{
		"Only download content you own or have permission to download.",
		"Respect copyright and the platform's terms of use.",
		"You are solely responsible for how you use downloaded content.",
	}
	for _, line := range bullets {
		b.WriteString(wrap.Render(styles.DimStyle.Render("• " + line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if t.termsURL != "" {
		b.WriteString(styles.HelpKeyStyle.Render("t") + " " + styles.InfoStyle.Render(styles.Truncate(t.termsURL, contentWidth-2)))
		b.WriteString("\n")
	}
	if t.privacyURL != "" {
		b.WriteString(styles.HelpKeyStyle.Render("p") + " " + styles.InfoStyle.Render(styles.Truncate(t.privacyURL, contentWidth-2)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	box := "[ ]"
	if t.checked {
		box = styles.SuccessStyle.Render("[✓]")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, box+" ", wrap.Width(contentWidth-4).Render(
		"I have read and agree to the Terms of Service and Privacy Policy")))
	b.WriteString("\n\n")

	if t.confirming {
		b.WriteString(wrap.Render(styles.WarningStyle.Render(
			"⚠ You must accept the terms to use this tool. Decline anyway? (y/n)")))
		return styles.ModalStyle.Width(modalWidth).Render(b.String())
	}

	accept := styles.ButtonDisabledStyle.Render("Accept")
	if t.checked {
		accept = styles.ButtonStyle.Render("Accept")
	}
	b.WriteString(accept + "  " + styles.ButtonDisabledStyle.Render("Decline"))
	b.WriteString("\n\n")
	b.WriteString(renderHints([][2]string{
		{"space", "agree"},
		{"enter", "accept"},
		{"d", "decline"},
	}))

	return styles.ModalStyle.Width(modalWidth).Render(b.String())
}
