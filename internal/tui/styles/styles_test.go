package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/tubegrab/internal/domain"
)

func TestApply(t *testing.T) {
	Apply(domain.ThemeDark)
	if Current != DarkPalette {
		t.Fatal("Apply(dark) did not select the dark palette")
	}
	Apply(domain.ThemeLight)
	if Current != LightPalette {
		t.Fatal("Apply(light) did not select the light palette")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 0, ""},
		{"日本語のタイトル", 7, "日本..."},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if lipgloss.Width(got) > tt.width {
			t.Errorf("Truncate(%q, %d) width = %d", tt.in, tt.width, lipgloss.Width(got))
		}
	}
}

func TestPad(t *testing.T) {
	if got := Pad("ab", 4); got != "ab  " {
		t.Errorf("Pad() = %q", got)
	}
	if got := Pad("abcdef", 3); got != "abc" {
		t.Errorf("Pad() = %q", got)
	}
}
