package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mmcdole/tubegrab/internal/domain"
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Accent    lipgloss.Color
	Surface   lipgloss.Color // modal and panel background
	Selection lipgloss.Color // selected row background
	Dim       lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	Green     lipgloss.Color
	Red       lipgloss.Color
	Yellow    lipgloss.Color
	Blue      lipgloss.Color
}

// Color palettes
var (
	DarkPalette = Palette{
		Accent:    lipgloss.Color("#FF4E45"),
		Surface:   lipgloss.Color("#1F2937"),
		Selection: lipgloss.Color("#374151"),
		Dim:       lipgloss.Color("#6B7280"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Text:      lipgloss.Color("#F9FAFB"),
		Green:     lipgloss.Color("#10B981"),
		Red:       lipgloss.Color("#EF4444"),
		Yellow:    lipgloss.Color("#F59E0B"),
		Blue:      lipgloss.Color("#3B82F6"),
	}

	LightPalette = Palette{
		Accent:    lipgloss.Color("#CC0000"),
		Surface:   lipgloss.Color("#F3F4F6"),
		Selection: lipgloss.Color("#E5E7EB"),
		Dim:       lipgloss.Color("#6B7280"),
		Muted:     lipgloss.Color("#4B5563"),
		Text:      lipgloss.Color("#111827"),
		Green:     lipgloss.Color("#047857"),
		Red:       lipgloss.Color("#B91C1C"),
		Yellow:    lipgloss.Color("#B45309"),
		Blue:      lipgloss.Color("#1D4ED8"),
	}
)

// Current is the palette the package styles were last built from
var Current Palette

// Text styles
var (
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	DimStyle       lipgloss.Style
	AccentStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	WarningStyle   lipgloss.Style
	InfoStyle      lipgloss.Style
	HighlightStyle lipgloss.Style
)

// Panel and modal styles
var (
	PanelStyle      lipgloss.Style
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	InputStyle      lipgloss.Style
	InputFocusStyle lipgloss.Style
)

// Button styles
var (
	ButtonStyle         lipgloss.Style
	ButtonDisabledStyle lipgloss.Style
)

// Help styles
var (
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
)

// Progress bar styles
var (
	ProgressFullStyle  lipgloss.Style
	ProgressEmptyStyle lipgloss.Style
)

// Badge styles
var (
	BadgeStyle    lipgloss.Style
	DimBadgeStyle lipgloss.Style
)

// Misc
var (
	SpinnerStyle                lipgloss.Style
	FilterPromptStyle           lipgloss.Style
	MatchHighlightStyle         lipgloss.Style
	MatchHighlightSelectedStyle lipgloss.Style
)

func init() {
	Apply(domain.ThemeLight)
}

// PaletteFor returns the palette for theme
func PaletteFor(theme domain.Theme) Palette {
	if theme == domain.ThemeDark {
		return DarkPalette
	}
	return LightPalette
}

// Apply rebuilds every package style from the theme's palette.
// Must be called from the UI goroutine.
func Apply(theme domain.Theme) {
	p := PaletteFor(theme)
	Current = p

	TitleStyle = lipgloss.NewStyle().Foreground(p.Text).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Muted)
	DimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	AccentStyle = lipgloss.NewStyle().Foreground(p.Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Red)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Green)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Yellow)
	InfoStyle = lipgloss.NewStyle().Foreground(p.Blue)
	HighlightStyle = lipgloss.NewStyle().
		Foreground(p.Surface).
		Background(p.Accent).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2).
		Background(p.Surface)

	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Bold(true).
		MarginBottom(1)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim).
		Padding(0, 1)

	InputFocusStyle = InputStyle.BorderForeground(p.Accent)

	ButtonStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.Accent).
		Bold(true).
		Padding(0, 2)

	ButtonDisabledStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Selection).
		Padding(0, 2)

	HelpKeyStyle = lipgloss.NewStyle().Foreground(p.Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(p.Dim)

	ProgressFullStyle = lipgloss.NewStyle().Foreground(p.Accent)
	ProgressEmptyStyle = lipgloss.NewStyle().Foreground(p.Dim)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.Accent).
		Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Selection).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().Foreground(p.Accent)
	FilterPromptStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.Selection).
		Bold(true)
}

// Helper functions

// Truncate shortens s to the given display width with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, "...")
}

// Pad pads or cuts s to exactly the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

// RenderProgressBar renders a progress bar
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = min(max(filled, 0), width)

	return ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderListRow renders a complete list row with uniform background when selected.
// Each part is styled explicitly so ANSI resets don't break the background.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := Current.Selection

	var b strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(Current.Text)
		default:
			style = style.Foreground(Current.Muted)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill to width, minus the two margins
	if pad := width - visibleLen - 2; pad > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		b.WriteString(padStyle.Render(strings.Repeat(" ", pad)))
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + b.String() + margin
}

// RowPart is one segment of a list row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}
