package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/tubegrab/internal/tui/styles"
	"github.com/mmcdole/tubegrab/internal/validate"
)

// urlCharLimit bounds pasted text
const urlCharLimit = 2048

// URLInput is the single-line URL field on the main screen
type URLInput struct {
	input textinput.Model
}

// NewURLInput creates a focused URL field
func NewURLInput() URLInput {
	ti := textinput.New()
	ti.Placeholder = "Paste a YouTube URL..."
	ti.CharLimit = urlCharLimit
	ti.Prompt = "› "
	ti.Focus()

	u := URLInput{input: ti}
	u.RefreshStyles()
	return u
}

// RefreshStyles picks up the current theme colors
func (u *URLInput) RefreshStyles() {
	u.input.PromptStyle = styles.AccentStyle
	u.input.TextStyle = lipgloss.NewStyle().Foreground(styles.Current.Text)
	u.input.PlaceholderStyle = styles.DimStyle
	u.input.Cursor.Style = styles.AccentStyle
}

// Value returns the trimmed field text
func (u URLInput) Value() string {
	return strings.TrimSpace(u.input.Value())
}

// SetValue replaces the field text and moves the cursor to the end
func (u *URLInput) SetValue(s string) {
	u.input.SetValue(s)
	u.input.CursorEnd()
}

// Reset empties the field
func (u *URLInput) Reset() {
	u.input.Reset()
}

// Focus gives the field keyboard focus
func (u *URLInput) Focus() tea.Cmd {
	return u.input.Focus()
}

// Blur removes keyboard focus
func (u *URLInput) Blur() {
	u.input.Blur()
}

// Update forwards a message to the text input
func (u URLInput) Update(msg tea.Msg) (URLInput, tea.Cmd) {
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return u, cmd
}

// View renders the field in a bordered box with a validity marker
func (u URLInput) View(width int) string {
	// 2 for the border, 2 for the padding, 2 for the marker
	inner := max(width-6, 10)
	u.input.Width = inner - lipgloss.Width(u.input.Prompt) - 1

	marker := " "
	if v := u.Value(); v != "" {
		if validate.IsSupportedURL(v) {
			marker = styles.SuccessStyle.Render("✓")
		} else {
			marker = styles.ErrorStyle.Render("✗")
		}
	}

	line := styles.Pad(u.input.View(), inner) + " " + marker

	box := styles.InputStyle
	if u.input.Focused() {
		box = styles.InputFocusStyle
	}
	return box.Width(width - 2).Render(line)
}
