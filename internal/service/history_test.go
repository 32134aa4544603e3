package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/domain"
)

func TestHistoryService_AppendPrependsAndTruncates(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	svc := NewHistoryService(newMemoryStore(t), clock, nil)

	for i := 0; i < domain.MaxHistoryEntries+5; i++ {
		if _, err := svc.Append(domain.HistoryEntry{URL: fmt.Sprintf("https://youtu.be/%d", i), Title: fmt.Sprintf("Video %d", i)}); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
		clock.Advance(time.Second)
	}

	entries := svc.List()
	if len(entries) != domain.MaxHistoryEntries {
		t.Fatalf("len = %d, want %d", len(entries), domain.MaxHistoryEntries)
	}
	if entries[0].Title != "Video 54" {
		t.Errorf("newest = %q", entries[0].Title)
	}
	if entries[len(entries)-1].Title != "Video 5" {
		t.Errorf("oldest = %q", entries[len(entries)-1].Title)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].ID >= entries[i-1].ID {
			t.Fatalf("ids not strictly descending at %d", i)
		}
	}
}

func TestHistoryService_AppendStampsEntry(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	svc := NewHistoryService(newMemoryStore(t), clock, nil)

	first, _ := svc.Append(domain.HistoryEntry{Title: "a", ID: 99})
	second, _ := svc.Append(domain.HistoryEntry{Title: "b"})

	if first.ID != epoch.UnixMilli() || !first.Timestamp.Equal(epoch) {
		t.Errorf("first = %+v", first)
	}
	if second.ID != first.ID+1 {
		t.Errorf("same-millisecond id = %d, want %d", second.ID, first.ID+1)
	}
}

func TestHistoryService_Clear(t *testing.T) {
	svc := NewHistoryService(newMemoryStore(t), clockwork.NewFakeClock(), nil)
	svc.Append(domain.HistoryEntry{Title: "a"})
	svc.Append(domain.HistoryEntry{Title: "b"})

	if err := svc.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if svc.Count() != 0 {
		t.Fatalf("Count() = %d after Clear", svc.Count())
	}
}

// failingStore returns stored history but refuses writes
type failingStore struct {
	entries []domain.HistoryEntry
}

func (f *failingStore) GetHistory() ([]domain.HistoryEntry, bool) { return f.entries, f.entries != nil }
func (f *failingStore) SaveHistory([]domain.HistoryEntry) error  { return errors.New("disk full") }

func TestHistoryService_StoreFailures(t *testing.T) {
	svc := NewHistoryService(&failingStore{}, clockwork.NewFakeClock(), nil)

	if got := svc.List(); got == nil || len(got) != 0 {
		t.Errorf("List() on empty store = %v, want empty slice", got)
	}
	if _, err := svc.Append(domain.HistoryEntry{Title: "a"}); err == nil {
		t.Error("Append() error = nil on failing store")
	}
	if err := svc.Clear(); err == nil {
		t.Error("Clear() error = nil on failing store")
	}
}

func TestHistoryService_Search(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	svc := NewHistoryService(newMemoryStore(t), clock, nil)
	for _, e := range []domain.HistoryEntry{
		{Title: "Lofi beats to study to", URL: "https://youtu.be/lofi"},
		{Title: "Never Gonna Give You Up", URL: "https://youtu.be/dQw4w9WgXcQ"},
		{Title: "Go concurrency patterns", URL: "https://youtu.be/f6kdp27TYZs"},
	} {
		svc.Append(e)
		clock.Advance(time.Second)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Go concurrency patterns", "Never Gonna Give You Up", "Lofi beats to study to"}},
		{"give", []string{"Never Gonna Give You Up"}},
		{"CONCURRENCY", []string{"Go concurrency patterns"}},
		{"dQw4", []string{"Never Gonna Give You Up"}},
		{"zzzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := svc.Search(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %d results, want %d", tt.query, len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Title != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %q, want %q", tt.query, i, got[i].Title, tt.want[i])
				}
			}
		})
	}
}
