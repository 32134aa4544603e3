package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/tui/components"
	"github.com/mmcdole/tubegrab/internal/tui/styles"
)

// maxContentWidth keeps the form readable on wide terminals
const maxContentWidth = 100

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateDeclined:
		return m.renderDeclined()
	case StateTerms:
		return m.placeModal(m.Terms.View(m.Width))
	case StateHelp:
		return m.placeModal(m.renderHelp())
	case StateConfirmReset:
		return m.placeModal(m.renderResetConfirmation())
	}

	if m.History.IsVisible() {
		return m.placeModal(m.History.View(m.clock.Now()))
	}

	return m.renderMain()
}

// placeModal centers a modal with the notification stack under it
func (m Model) placeModal(modal string) string {
	if toasts := m.Toasts.View(lipgloss.Width(modal)); toasts != "" {
		modal = lipgloss.JoinVertical(lipgloss.Left, modal, "", toasts)
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) renderMain() string {
	width := min(m.Width, maxContentWidth)
	spinner := RenderSpinner(m.SpinnerFrame)

	sections := []string{
		m.renderHeader(width),
		"",
		m.URLInput.View(width),
		m.renderOptions(width),
		"",
		m.renderActions(),
	}

	if preview := m.Preview.View(width, spinner, m.clock.Now()); preview != "" {
		sections = append(sections, "", preview)
	}
	if progress := m.Progress.View(width, spinner); progress != "" {
		sections = append(sections, "", progress)
	}
	if toasts := m.Toasts.View(width); toasts != "" {
		sections = append(sections, "", toasts)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter(width)

	// Footer sticks to the bottom row
	gap := m.Height - lipgloss.Height(body) - lipgloss.Height(footer)
	if gap > 0 {
		body += strings.Repeat("\n", gap)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, body, footer)
	return lipgloss.PlaceHorizontal(m.Width, lipgloss.Center, view)
}

// renderHeader renders the title bar with theme and history count
func (m Model) renderHeader(width int) string {
	left := styles.AccentStyle.Bold(true).Render("▶ tubegrab") +
		styles.DimStyle.Render("  YouTube downloads from your terminal")

	theme := "☀ light"
	if m.Theme == domain.ThemeDark {
		theme = "☾ dark"
	}
	right := styles.DimStyle.Render(theme+"  ") +
		styles.DimBadgeStyle.Render(fmt.Sprintf("History %d", m.HistoryCount))

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderOptions renders the format toggle and quality selector
func (m Model) renderOptions(width int) string {
	video := styles.ButtonDisabledStyle.Render("Video")
	audio := styles.ButtonDisabledStyle.Render("Audio")
	if m.Format == domain.FormatAudio {
		audio = styles.BadgeStyle.Render("Audio")
	} else {
		video = styles.BadgeStyle.Render("Video")
	}

	label := "Quality"
	if m.Format == domain.FormatAudio {
		label = "Audio format"
	}

	left := styles.DimStyle.Render("Format ") + video + " " + audio
	right := styles.DimStyle.Render(label+" ") +
		styles.AccentStyle.Render("‹ ") +
		styles.TitleStyle.Render(m.SelectedQuality()) +
		styles.AccentStyle.Render(" ›")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 2)
	return left + strings.Repeat(" ", gap) + right
}

// renderActions renders the download button and its hints
func (m Model) renderActions() string {
	label := components.ButtonLabel(m.Session)

	button := styles.ButtonStyle.Render("⬇ " + label)
	if m.Session.Busy() {
		button = styles.ButtonDisabledStyle.Render(RenderSpinner(m.SpinnerFrame) + " " + label)
	}

	info := styles.ButtonDisabledStyle.Render("Get Info")
	if m.Preview.IsLoading() {
		info = styles.ButtonDisabledStyle.Render(RenderSpinner(m.SpinnerFrame) + " Fetching...")
	}

	return button + "  " + info + "  " +
		styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" download  ") +
		styles.HelpKeyStyle.Render("C-f") + styles.HelpDescStyle.Render(" info")
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter(width int) string {
	hints := [][2]string{
		{"tab", "format"},
		{"C-n/p", "quality"},
		{"C-v", "paste"},
		{"C-h", "history"},
		{"C-t", "theme"},
	}
	var parts []string
	for _, h := range hints {
		parts = append(parts, styles.HelpKeyStyle.Render(h[0])+" "+styles.HelpDescStyle.Render(h[1]))
	}
	left := strings.Join(parts, "  ")
	right := styles.HelpKeyStyle.Render("F1") + styles.HelpDescStyle.Render(" help")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return right
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
DOWNLOAD                        APPLICATION
  Enter      Start download       Ctrl+h  Download history
  Ctrl+f     Fetch video info     Ctrl+t  Toggle dark mode
  Ctrl+v     Paste URL            Ctrl+r  Clear all data
  Ctrl+l     Clear URL            F1      This help
  Tab        Video / audio        Esc     Close
  Ctrl+n/p   Change quality       Ctrl+c  Quit
  Ctrl+o     Open in browser

HISTORY
  j/k        Up/down              /       Filter by title
  Enter      Download again       o       Open in browser
  x          Clear history

Press Esc to return...
`

	return styles.ModalStyle.Render(help)
}

// renderResetConfirmation renders the clear-all confirmation modal
func (m Model) renderResetConfirmation() string {
	modal := `
            Clear All Data?

  This removes your download history,
  theme and terms acceptance. You will
  need to accept the terms again.

        [Y] Yes      [N] No
`

	return styles.ModalStyle.Render(modal)
}

// renderDeclined renders the terminal notice shown after declining the terms
func (m Model) renderDeclined() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("Terms Declined"),
		"",
		styles.SubtitleStyle.Render("You must accept the Terms of Service and Privacy Policy to use tubegrab."),
		"",
		styles.DimStyle.Render("Press Ctrl+C to exit."),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		content)
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
