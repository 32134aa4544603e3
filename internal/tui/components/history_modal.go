package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/format"
	"github.com/mmcdole/tubegrab/internal/tui/styles"
)

// HistoryAction is what the app should do after a history modal key
type HistoryAction int

const (
	HistoryActionNone HistoryAction = iota
	HistoryActionClose
	HistoryActionRedownload
	HistoryActionOpen
	HistoryActionClear
)

// HistoryResult carries a HistoryAction and the entry it applies to
type HistoryResult struct {
	Action HistoryAction
	Entry  domain.HistoryEntry
}

// historyMatch is one visible row after filtering
type historyMatch struct {
	index   int   // into entries
	matched []int // rune positions in the title
}

// HistoryModal lists previous downloads with a fuzzy title filter
type HistoryModal struct {
	visible    bool
	entries    []domain.HistoryEntry
	matches    []historyMatch
	cursor     int
	offset     int
	filtering  bool
	confirming bool
	filter     textinput.Model
	width      int
	height     int
}

// NewHistoryModal creates a hidden history modal
func NewHistoryModal() HistoryModal {
	ti := textinput.New()
	ti.Placeholder = "Filter by title..."
	ti.CharLimit = 100
	ti.Prompt = "/ "

	return HistoryModal{filter: ti}
}

// Show opens the modal over entries, newest first
func (h *HistoryModal) Show(entries []domain.HistoryEntry) {
	h.visible = true
	h.filtering = false
	h.confirming = false
	h.filter.SetValue("")
	h.filter.Blur()
	h.SetEntries(entries)
}

// SetEntries replaces the list, keeping the filter
func (h *HistoryModal) SetEntries(entries []domain.HistoryEntry) {
	h.entries = entries
	h.applyFilter()
}

// Hide closes the modal
func (h *HistoryModal) Hide() {
	h.visible = false
	h.filtering = false
	h.confirming = false
	h.filter.Blur()
}

// IsVisible returns whether the modal is shown
func (h HistoryModal) IsVisible() bool {
	return h.visible
}

// IsConfirming returns whether the clear prompt is up
func (h HistoryModal) IsConfirming() bool {
	return h.confirming
}

// IsFiltering returns whether the filter input has focus
func (h HistoryModal) IsFiltering() bool {
	return h.filtering
}

// SetSize updates the area the modal is centered in
func (h *HistoryModal) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Selected returns the entry under the cursor
func (h HistoryModal) Selected() (domain.HistoryEntry, bool) {
	if h.cursor < 0 || h.cursor >= len(h.matches) {
		return domain.HistoryEntry{}, false
	}
	return h.entries[h.matches[h.cursor].index], true
}

// VisibleCount returns the number of rows after filtering
func (h HistoryModal) VisibleCount() int {
	return len(h.matches)
}

// Update handles a key and reports what the app should do
func (h HistoryModal) Update(msg tea.Msg) (HistoryModal, tea.Cmd, HistoryResult) {
	if !h.visible {
		return h, nil, HistoryResult{}
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if h.filtering {
			var cmd tea.Cmd
			h.filter, cmd = h.filter.Update(msg)
			return h, cmd, HistoryResult{}
		}
		return h, nil, HistoryResult{}
	}

	keys := HistoryModalKeys

	if h.confirming {
		switch {
		case key.Matches(keyMsg, keys.Confirm):
			h.confirming = false
			return h, nil, HistoryResult{Action: HistoryActionClear}
		case key.Matches(keyMsg, keys.Deny):
			h.confirming = false
		}
		return h, nil, HistoryResult{}
	}

	if h.filtering {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			// First esc leaves filter mode, keeping the query
			h.filtering = false
			h.filter.Blur()
			if h.filter.Value() == "" {
				h.applyFilter()
			}
			return h, nil, HistoryResult{}
		case key.Matches(keyMsg, keys.Enter):
			return h, nil, h.selectedResult(HistoryActionRedownload)
		case key.Matches(keyMsg, keys.NextItem):
			h.moveCursor(1)
			return h, nil, HistoryResult{}
		case key.Matches(keyMsg, keys.PrevItem):
			h.moveCursor(-1)
			return h, nil, HistoryResult{}
		}

		var cmd tea.Cmd
		before := h.filter.Value()
		h.filter, cmd = h.filter.Update(msg)
		if h.filter.Value() != before {
			h.applyFilter()
		}
		return h, cmd, HistoryResult{}
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		if h.filter.Value() != "" {
			h.filter.SetValue("")
			h.applyFilter()
			return h, nil, HistoryResult{}
		}
		h.Hide()
		return h, nil, HistoryResult{Action: HistoryActionClose}
	case key.Matches(keyMsg, keys.Up):
		h.moveCursor(-1)
	case key.Matches(keyMsg, keys.Down):
		h.moveCursor(1)
	case key.Matches(keyMsg, keys.Home):
		h.cursor = 0
		h.offset = 0
	case key.Matches(keyMsg, keys.End):
		h.cursor = max(len(h.matches)-1, 0)
		h.ensureVisible()
	case key.Matches(keyMsg, keys.Filter):
		h.filtering = true
		cmd := h.filter.Focus()
		return h, cmd, HistoryResult{}
	case key.Matches(keyMsg, keys.Clear):
		if len(h.entries) > 0 {
			h.confirming = true
		}
	case key.Matches(keyMsg, keys.Enter):
		return h, nil, h.selectedResult(HistoryActionRedownload)
	case key.Matches(keyMsg, keys.Open):
		return h, nil, h.selectedResult(HistoryActionOpen)
	}
	return h, nil, HistoryResult{}
}

func (h HistoryModal) selectedResult(action HistoryAction) HistoryResult {
	entry, ok := h.Selected()
	if !ok {
		return HistoryResult{}
	}
	return HistoryResult{Action: action, Entry: entry}
}

func (h *HistoryModal) moveCursor(delta int) {
	if len(h.matches) == 0 {
		return
	}
	h.cursor = min(max(h.cursor+delta, 0), len(h.matches)-1)
	h.ensureVisible()
}

func (h *HistoryModal) ensureVisible() {
	rows := h.maxRows()
	if h.cursor < h.offset {
		h.offset = h.cursor
	}
	if h.cursor >= h.offset+rows {
		h.offset = h.cursor - rows + 1
	}
}

// applyFilter recomputes the visible rows for the current query
func (h *HistoryModal) applyFilter() {
	query := strings.TrimSpace(h.filter.Value())
	h.cursor = 0
	h.offset = 0

	if query == "" {
		h.matches = make([]historyMatch, len(h.entries))
		for i := range h.entries {
			h.matches[i] = historyMatch{index: i}
		}
		return
	}

	lowerTitles := make([]string, len(h.entries))
	for i, e := range h.entries {
		lowerTitles[i] = strings.ToLower(format.Sanitize(e.Title))
	}

	found := fuzzy.Find(strings.ToLower(query), lowerTitles)
	h.matches = make([]historyMatch, len(found))
	for i, m := range found {
		h.matches[i] = historyMatch{
			index:   m.Index,
			matched: runePositions(lowerTitles[m.Index], m.MatchedIndexes),
		}
	}
}

// runePositions converts byte offsets from fuzzy.Find into rune positions
func runePositions(s string, byteIdx []int) []int {
	if len(byteIdx) == 0 {
		return nil
	}
	want := make(map[int]bool, len(byteIdx))
	for _, b := range byteIdx {
		want[b] = true
	}
	var out []int
	r := 0
	for b := range s {
		if want[b] {
			out = append(out, r)
		}
		r++
	}
	return out
}

// maxRows is how many entries fit in the modal body
func (h HistoryModal) maxRows() int {
	// Each entry is two lines. Reserve chrome: border, padding, title, filter, footer.
	rows := (h.height - 12) / 2
	return max(rows, 3)
}

func (h HistoryModal) modalWidth() int {
	return min(max(h.width-8, 40), 90)
}

// View renders the modal
func (h HistoryModal) View(now time.Time) string {
	if !h.visible {
		return ""
	}

	width := h.modalWidth()
	contentWidth := width - 6

	var b strings.Builder

	title := fmt.Sprintf("Download History (%d)", len(h.entries))
	b.WriteString(styles.ModalTitleStyle.Render(title))
	b.WriteString("\n")

	if h.filtering || h.filter.Value() != "" {
		if h.filtering {
			b.WriteString(h.filter.View())
		} else {
			b.WriteString(styles.FilterPromptStyle.Render("/ ") + h.filter.Value())
		}
		b.WriteString("\n\n")
	}

	switch {
	case len(h.entries) == 0:
		b.WriteString(styles.DimStyle.Render("No downloads yet"))
		b.WriteString("\n")
	case len(h.matches) == 0:
		b.WriteString(styles.DimStyle.Render("No matches"))
		b.WriteString("\n")
	default:
		end := min(h.offset+h.maxRows(), len(h.matches))
		for i := h.offset; i < end; i++ {
			b.WriteString(h.renderRow(h.matches[i], i == h.cursor, contentWidth, now))
			b.WriteString("\n")
		}
		if end < len(h.matches) {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ↓ %d more", len(h.matches)-end)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if h.confirming {
		b.WriteString(styles.WarningStyle.Render("⚠ Clear all download history? (y/n)"))
	} else {
		b.WriteString(renderHints([][2]string{
			{"enter", "download again"},
			{"/", "filter"},
			{"o", "open"},
			{"x", "clear"},
			{"esc", "close"},
		}))
	}

	return styles.ModalStyle.Width(width).Render(b.String())
}

func (h HistoryModal) renderRow(m historyMatch, selected bool, width int, now time.Time) string {
	e := h.entries[m.index]

	marker := "  "
	if selected {
		marker = styles.AccentStyle.Render("▸ ")
	}

	title := format.Sanitize(e.Title)
	if title == "" {
		title = "Unknown"
	}
	title = styles.Truncate(title, width-2)
	titleLine := marker + highlightMatches(title, m.matched, selected)

	badge := strings.ToUpper(e.Format.String())
	if e.Quality != "" {
		badge += " · " + e.Quality
	}
	meta := styles.DimBadgeStyle.Render(badge) + " " +
		styles.DimStyle.Render(format.RelativeTime(e.Timestamp, now))

	return titleLine + "\n  " + meta
}

// highlightMatches renders text with the runes at matched positions emphasized
func highlightMatches(text string, matched []int, selected bool) string {
	normal := lipgloss.NewStyle().Foreground(styles.Current.Muted)
	match := styles.MatchHighlightStyle
	if selected {
		normal = lipgloss.NewStyle().Foreground(styles.Current.Text).Bold(true)
		match = styles.MatchHighlightSelectedStyle
	}

	if len(matched) == 0 {
		return normal.Render(text)
	}

	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	// Batch consecutive runes with the same style
	var b strings.Builder
	var run []rune
	inMatch := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if inMatch {
			b.WriteString(match.Render(string(run)))
		} else {
			b.WriteString(normal.Render(string(run)))
		}
		run = run[:0]
	}

	i := 0
	for _, r := range text {
		if set[i] != inMatch {
			flush()
			inMatch = set[i]
		}
		run = append(run, r)
		i++
	}
	flush()
	return b.String()
}

// renderHints renders "key desc" pairs for a modal footer
func renderHints(hints [][2]string) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = styles.HelpKeyStyle.Render(h[0]) + " " + styles.HelpDescStyle.Render(h[1])
	}
	return strings.Join(parts, "  ")
}
