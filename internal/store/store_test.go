package store

import (
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/tubegrab/internal/domain"
)

func sampleHistory() []domain.HistoryEntry {
	return []domain.HistoryEntry{
		{ID: 2, URL: "https://youtu.be/b", Title: "B", Format: domain.FormatAudio, Quality: "mp3", Timestamp: time.Unix(200, 0).UTC()},
		{ID: 1, URL: "https://youtu.be/a", Title: "A", Format: domain.FormatVideo, Quality: "720p", Timestamp: time.Unix(100, 0).UTC()},
	}
}

func TestLocalStore_MemoryOnly(t *testing.T) {
	s, err := NewLocalStore("")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	defer s.Close()

	if _, ok := s.GetHistory(); ok {
		t.Fatal("GetHistory() on empty store reported ok")
	}
	if err := s.SaveHistory(sampleHistory()); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}
	got, ok := s.GetHistory()
	if !ok || len(got) != 2 || got[0].Title != "B" {
		t.Fatalf("GetHistory() = %+v, %v", got, ok)
	}
}

func TestLocalStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	if err := s.SaveHistory(sampleHistory()); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}
	if err := s.SaveTheme(domain.ThemeDark); err != nil {
		t.Fatalf("SaveTheme() error = %v", err)
	}
	accepted := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := s.SaveTerms(domain.TermsAcceptance{Accepted: true, AcceptedAt: accepted}); err != nil {
		t.Fatalf("SaveTerms() error = %v", err)
	}
	if err := s.SaveClientID("client-1"); err != nil {
		t.Fatalf("SaveClientID() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = NewLocalStore(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	history, ok := s.GetHistory()
	if !ok || len(history) != 2 || history[1].URL != "https://youtu.be/a" {
		t.Errorf("GetHistory() = %+v, %v", history, ok)
	}
	if theme, ok := s.GetTheme(); !ok || theme != domain.ThemeDark {
		t.Errorf("GetTheme() = %q, %v", theme, ok)
	}
	terms, ok := s.GetTerms()
	if !ok || !terms.Accepted || !terms.AcceptedAt.Equal(accepted) {
		t.Errorf("GetTerms() = %+v, %v", terms, ok)
	}
	if id, ok := s.GetClientID(); !ok || id != "client-1" {
		t.Errorf("GetClientID() = %q, %v", id, ok)
	}
}

func TestLocalStore_ClearAll(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	defer s.Close()

	s.SaveHistory(sampleHistory())
	s.SaveTheme(domain.ThemeDark)
	s.SaveTerms(domain.TermsAcceptance{Accepted: true})
	s.SaveClientID("client-1")

	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	if _, ok := s.GetHistory(); ok {
		t.Error("history survived ClearAll")
	}
	if _, ok := s.GetTheme(); ok {
		t.Error("theme survived ClearAll")
	}
	if _, ok := s.GetTerms(); ok {
		t.Error("terms survived ClearAll")
	}
	if _, ok := s.GetClientID(); ok {
		t.Error("client id survived ClearAll")
	}
}

func TestLocalStore_Closed(t *testing.T) {
	s, _ := NewLocalStore("")
	s.Close()

	if err := s.SaveTheme(domain.ThemeDark); !errors.Is(err, domain.ErrStoreClosed) {
		t.Errorf("SaveTheme() after Close = %v, want ErrStoreClosed", err)
	}
	if err := s.ClearAll(); !errors.Is(err, domain.ErrStoreClosed) {
		t.Errorf("ClearAll() after Close = %v, want ErrStoreClosed", err)
	}
}

func TestLocalStore_FailedWriteIsNotCached(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	defer s.Close()

	if err := s.SaveTheme(domain.ThemeDark); err != nil {
		t.Fatalf("SaveTheme() error = %v", err)
	}

	// Make every further bolt transaction fail
	if err := s.db.Close(); err != nil {
		t.Fatalf("close bolt: %v", err)
	}

	if err := s.SaveTerms(domain.TermsAcceptance{Accepted: true, AcceptedAt: time.Unix(100, 0)}); err == nil {
		t.Fatal("SaveTerms() on a dead database succeeded")
	}
	if terms, ok := s.GetTerms(); ok || terms.Accepted {
		t.Errorf("GetTerms() = %+v, %v after a failed write, want nothing", terms, ok)
	}
	if theme, ok := s.GetTheme(); !ok || theme != domain.ThemeDark {
		t.Errorf("GetTheme() = %q, %v, want the earlier committed value", theme, ok)
	}
}
