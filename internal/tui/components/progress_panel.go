package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/format"
	"github.com/mmcdole/tubegrab/internal/tui/styles"
)

// ProgressPanel renders the state of the current download session
type ProgressPanel struct {
	session domain.Session
	title   string
	visible bool
}

// NewProgressPanel creates a hidden progress panel
func NewProgressPanel() ProgressPanel {
	return ProgressPanel{}
}

// SetSession shows the panel with the given session snapshot
func (p *ProgressPanel) SetSession(s domain.Session) {
	p.session = s
	p.visible = s.State != domain.StateIdle
	if s.Pending != nil {
		p.title = s.Pending.Title
	}
}

// SetTitle replaces the title shown under a finished download
func (p *ProgressPanel) SetTitle(title string) {
	p.title = title
}

// Hide dismisses the panel
func (p *ProgressPanel) Hide() {
	p.visible = false
}

// IsVisible returns whether the panel is shown
func (p ProgressPanel) IsVisible() bool {
	return p.visible
}

// Session returns the last session snapshot
func (p ProgressPanel) Session() domain.Session {
	return p.session
}

// StatusText returns the headline for the session state
func StatusText(s domain.Session) string {
	switch s.State {
	case domain.StateStarting:
		return "Starting download..."
	case domain.StateDownloading:
		return "Downloading..."
	case domain.StateProcessing:
		if s.Message != "" {
			return format.Sanitize(s.Message)
		}
		return "Processing..."
	case domain.StateCompleted:
		return "✓ Download completed!"
	case domain.StateError:
		return "✗ Download failed"
	}
	return ""
}

// View renders the panel
func (p ProgressPanel) View(width int, spinner string) string {
	if !p.visible {
		return ""
	}

	contentWidth := max(width-4, 10)
	s := p.session

	headline := StatusText(s)
	var headStyle lipgloss.Style
	switch s.State {
	case domain.StateCompleted:
		headStyle = styles.SuccessStyle.Bold(true)
	case domain.StateError:
		headStyle = styles.ErrorStyle.Bold(true)
	default:
		headStyle = styles.TitleStyle
		headline = spinner + " " + headline
	}

	percent := s.Percent
	if percent == "" {
		percent = "0%"
	}
	pctText := styles.AccentStyle.Bold(true).Render(percent)
	gap := max(contentWidth-lipgloss.Width(headline)-lipgloss.Width(percent), 1)
	head := headStyle.Render(styles.Truncate(headline, contentWidth-lipgloss.Width(percent)-1)) +
		strings.Repeat(" ", gap) + pctText

	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n")
	b.WriteString(styles.RenderProgressBar(s.PercentValue(), contentWidth))

	switch s.State {
	case domain.StateDownloading:
		var parts []string
		if s.Speed != "" {
			parts = append(parts, "Speed: "+format.Sanitize(s.Speed))
		}
		if s.ETA != "" {
			parts = append(parts, "ETA: "+format.Sanitize(s.ETA))
		}
		if len(parts) > 0 {
			b.WriteString("\n")
			b.WriteString(styles.DimStyle.Render(styles.Truncate(strings.Join(parts, "   "), contentWidth)))
		}
	case domain.StateError:
		if s.Error != "" {
			b.WriteString("\n")
			b.WriteString(styles.ErrorStyle.Render(styles.Truncate(format.Sanitize(s.Error), contentWidth)))
		}
	case domain.StateCompleted:
		if p.title != "" {
			b.WriteString("\n")
			b.WriteString(styles.DimStyle.Render(styles.Truncate(format.Sanitize(p.title), contentWidth)))
		}
	}

	return styles.PanelStyle.Width(width - 2).Render(b.String())
}

// ButtonLabel returns the download button caption for a session
func ButtonLabel(s domain.Session) string {
	switch s.State {
	case domain.StateStarting:
		return "Starting..."
	case domain.StateDownloading, domain.StateProcessing:
		if s.Percent != "" {
			return "Downloading " + format.Sanitize(s.Percent)
		}
		return "Downloading..."
	}
	return "Download"
}
