package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/tubegrab/internal/format"
	"github.com/mmcdole/tubegrab/internal/tui/styles"
)

// ToastLifetime is how long a notification stays on screen
const ToastLifetime = 5 * time.Second

// maxToasts caps the stack; the oldest is dropped first
const maxToasts = 4

// ToastKind selects the icon and color of a notification
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Icon returns the glyph shown before the message
func (k ToastKind) Icon() string {
	switch k {
	case ToastSuccess:
		return "✓"
	case ToastWarning:
		return "⚠"
	case ToastError:
		return "✗"
	}
	return "ℹ"
}

func (k ToastKind) style() lipgloss.Style {
	switch k {
	case ToastSuccess:
		return styles.SuccessStyle
	case ToastWarning:
		return styles.WarningStyle
	case ToastError:
		return styles.ErrorStyle
	}
	return styles.InfoStyle
}

// Toast is one on-screen notification
type Toast struct {
	ID        int
	Kind      ToastKind
	Message   string
	ExpiresAt time.Time
}

// Toasts is the notification stack, newest last
type Toasts struct {
	items  []Toast
	nextID int
}

// NewToasts creates an empty stack
func NewToasts() Toasts {
	return Toasts{}
}

// Push adds a notification and returns its id. The message is sanitized.
func (t *Toasts) Push(kind ToastKind, message string, now time.Time) int {
	t.nextID++
	t.items = append(t.items, Toast{
		ID:        t.nextID,
		Kind:      kind,
		Message:   format.Sanitize(message),
		ExpiresAt: now.Add(ToastLifetime),
	})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
	return t.nextID
}

// Dismiss removes the toast with id, if still present
func (t *Toasts) Dismiss(id int) {
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Items returns the visible toasts, oldest first
func (t Toasts) Items() []Toast {
	return t.items
}

// Len returns the number of visible toasts
func (t Toasts) Len() int {
	return len(t.items)
}

// View renders the stack right-aligned to width
func (t Toasts) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}

	maxWidth := min(max(width/2, 30), width)
	lines := make([]string, len(t.items))
	for i, item := range t.items {
		text := item.Kind.Icon() + " " + styles.Truncate(item.Message, maxWidth-4)
		lines[i] = item.Kind.style().Bold(true).Render(text)
	}

	block := strings.Join(lines, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}
