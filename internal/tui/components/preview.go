package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/format"
	"github.com/mmcdole/tubegrab/internal/tui/styles"
)

// previewDescriptionLines caps the description shown under the metadata
const previewDescriptionLines = 3

// Preview shows the metadata fetched for the current URL
type Preview struct {
	info    *domain.VideoInfo
	loading bool
}

// NewPreview creates an empty preview
func NewPreview() Preview {
	return Preview{}
}

// SetInfo shows info and ends any loading state
func (p *Preview) SetInfo(info *domain.VideoInfo) {
	p.info = info
	p.loading = false
}

// SetLoading toggles the fetching placeholder
func (p *Preview) SetLoading(loading bool) {
	p.loading = loading
}

// Clear hides the preview
func (p *Preview) Clear() {
	p.info = nil
	p.loading = false
}

// Info returns the displayed metadata, nil if none
func (p Preview) Info() *domain.VideoInfo {
	return p.info
}

// IsLoading reports whether a fetch is in flight
func (p Preview) IsLoading() bool {
	return p.loading
}

// HasInfo returns true if metadata is displayed
func (p Preview) HasInfo() bool {
	return p.info != nil
}

// View renders the preview panel. It returns "" when there is nothing to show.
func (p Preview) View(width int, spinner string, now time.Time) string {
	if !p.loading && p.info == nil {
		return ""
	}

	contentWidth := max(width-4, 10)

	if p.loading {
		line := spinner + " " + styles.SubtitleStyle.Render("Fetching video information...")
		return styles.PanelStyle.Width(width - 2).Render(line)
	}

	return styles.PanelStyle.Width(width - 2).Render(renderVideoInfo(*p.info, contentWidth, now))
}

func renderVideoInfo(info domain.VideoInfo, width int, now time.Time) string {
	var b strings.Builder

	title := format.Sanitize(info.Title)
	if title == "" {
		title = "Unknown"
	}
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(title, width)))
	b.WriteString("\n")

	if uploader := format.Sanitize(info.Uploader); uploader != "" {
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(uploader, width)))
		b.WriteString("\n")
	}

	// Metadata line: duration · size · views · uploaded
	var meta []string
	meta = append(meta, "⏱ "+format.Duration(info.Duration))
	if info.FileSize > 0 {
		meta = append(meta, "≈ "+format.FileSize(info.FileSize))
	}
	if info.ViewCount > 0 {
		meta = append(meta, format.Count(info.ViewCount)+" views")
	}
	if uploaded := info.UploadedAt(); !uploaded.IsZero() {
		meta = append(meta, format.RelativeTime(uploaded, now))
	}
	b.WriteString(styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)))

	if len(info.Formats) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(styles.Truncate(formatsLine(info.Formats), width)))
	}

	if desc := format.Sanitize(info.Description); desc != "" {
		lines := strings.Split(ansi.Wordwrap(desc, width, ""), "\n")
		if len(lines) > previewDescriptionLines {
			lines = lines[:previewDescriptionLines]
			last := previewDescriptionLines - 1
			lines[last] = styles.Truncate(lines[last]+"…", width)
		}
		b.WriteString("\n\n")
		b.WriteString(styles.SubtitleStyle.Render(strings.Join(lines, "\n")))
	}

	return b.String()
}

func formatsLine(formats []domain.QualityOption) string {
	labels := make([]string, 0, len(formats))
	for _, f := range formats {
		switch {
		case f.Quality != "":
			labels = append(labels, f.Quality)
		case f.Height > 0:
			labels = append(labels, fmt.Sprintf("%dp", f.Height))
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return "Available: " + strings.Join(labels, ", ")
}
