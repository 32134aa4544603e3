package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/tui"
)

func TestProgressPrinter_PlainOutputOneLinePerChange(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf, false)

	sessions := []domain.Session{
		{State: domain.StateStarting},
		{State: domain.StateDownloading, Percent: "10%", Speed: "1.2MiB/s", ETA: "00:30"},
		{State: domain.StateDownloading, Percent: "10%", Speed: "1.2MiB/s", ETA: "00:30"},
		{State: domain.StateProcessing, Percent: "100%", Message: "Converting to mp3"},
		{State: domain.StateCompleted},
	}
	for _, s := range sessions {
		p.Print(s)
	}
	p.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if strings.Contains(buf.String(), "\r") {
		t.Error("plain output contains carriage returns")
	}

	want := []string{"Starting download...", "Downloading...", "Converting to mp3", "✓ Download completed!"}
	for i, w := range want {
		if !strings.HasPrefix(lines[i], w) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], w)
		}
	}
	if !strings.Contains(lines[1], "10.0%") || !strings.Contains(lines[1], "ETA 00:30") {
		t.Errorf("downloading line = %q", lines[1])
	}
}

func TestProgressPrinter_TerminalRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf, true)

	p.Print(domain.Session{State: domain.StateDownloading, Percent: "50%"})
	p.Print(domain.Session{State: domain.StateError, Error: "Video unavailable"})
	p.Finish()

	out := buf.String()
	if strings.Count(out, "\r\x1b[2K") != 2 {
		t.Errorf("expected two in-place redraws, got %q", out)
	}
	if !strings.Contains(out, "█") {
		t.Errorf("terminal output has no progress bar: %q", out)
	}
	if !strings.HasSuffix(out, "Video unavailable\n") {
		t.Errorf("output should end with the error and a newline: %q", out)
	}
}

func TestProgressLine_IdleIsEmpty(t *testing.T) {
	if got := progressLine(domain.Session{State: domain.StateIdle}, false); got != "" {
		t.Errorf("progressLine(idle) = %q, want empty", got)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "[░░░░]"},
		{50, "[██░░]"},
		{100, "[████]"},
		{150, "[████]"},
	}
	for _, tt := range tests {
		if got := renderBar(tt.percent, 4); got != tt.want {
			t.Errorf("renderBar(%v) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	entries := []domain.HistoryEntry{
		{URL: "https://youtu.be/abc", Title: "Lofi\x1b[31m beats", Format: domain.FormatAudio, Quality: "mp3", Timestamp: now.Add(-2 * time.Hour)},
	}

	var buf bytes.Buffer
	printHistory(&buf, entries, now)

	out := buf.String()
	for _, want := range []string{"2h ago", "audio", "mp3", "https://youtu.be/abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b") {
		t.Errorf("history output contains escape sequences: %q", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := confirm(strings.NewReader(tt.input), "")
		if err != nil {
			t.Fatalf("confirm(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFollowSession_FinishesAfterBacklog(t *testing.T) {
	events := tui.NewChannelObserver()
	for i := 0; i < 64; i++ {
		events.OnSessionEvent(domain.SessionEvent{
			Kind:    domain.EventProgress,
			Session: domain.Session{State: domain.StateDownloading, Percent: fmt.Sprintf("%d%%", i)},
		})
	}
	events.OnSessionEvent(domain.SessionEvent{
		Kind:    domain.EventCompleted,
		Session: domain.Session{State: domain.StateCompleted},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var buf bytes.Buffer
	stopped := false
	err := followSession(ctx, events, newProgressPrinter(&buf, false), func() { stopped = true })
	if err != nil {
		t.Fatalf("followSession() error = %v", err)
	}
	if stopped {
		t.Error("stop called for a finished download")
	}
	if !strings.Contains(buf.String(), "63.0%") {
		t.Errorf("newest progress missing from output:\n%s", buf.String())
	}
}

func TestFollowSession_FailureReturnsSessionError(t *testing.T) {
	events := tui.NewChannelObserver()
	events.OnSessionEvent(domain.SessionEvent{
		Kind:    domain.EventFailed,
		Session: domain.Session{State: domain.StateError, Error: "Video unavailable"},
	})

	var buf bytes.Buffer
	err := followSession(context.Background(), events, newProgressPrinter(&buf, false), func() {})
	if err == nil || err.Error() != "Video unavailable" {
		t.Fatalf("followSession() error = %v, want Video unavailable", err)
	}
}

func TestFollowSession_InterruptStopsDownload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	stopped := false
	err := followSession(ctx, tui.NewChannelObserver(), newProgressPrinter(&buf, false), func() { stopped = true })
	if err == nil || err.Error() != "download interrupted" {
		t.Fatalf("followSession() error = %v, want download interrupted", err)
	}
	if !stopped {
		t.Error("stop not called on interrupt")
	}
}
