package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/apitest"
	"github.com/mmcdole/tubegrab/internal/domain"
)

func TestMetadataService_RejectsInvalidURLLocally(t *testing.T) {
	srv := apitest.New(t)
	svc := NewMetadataService(newAPIClient(srv), clockwork.NewFakeClock(), nil)

	tests := []struct {
		url  string
		want error
	}{
		{"", domain.ErrEmptyURL},
		{"   ", domain.ErrEmptyURL},
		{"https://vimeo.com/123", domain.ErrInvalidURL},
		{"not a url", domain.ErrInvalidURL},
	}
	for _, tt := range tests {
		if _, err := svc.FetchInfo(context.Background(), tt.url); !errors.Is(err, tt.want) {
			t.Errorf("FetchInfo(%q) error = %v, want %v", tt.url, err, tt.want)
		}
	}
	if n := srv.Count(apitest.RouteInfo); n != 0 {
		t.Fatalf("info requests = %d, want 0", n)
	}
	if svc.LastPreview() != nil {
		t.Fatal("LastPreview() set after failed fetches")
	}
}

func TestMetadataService_FetchAndCache(t *testing.T) {
	srv := apitest.New(t)
	clock := clockwork.NewFakeClockAt(epoch)
	svc := NewMetadataService(newAPIClient(srv), clock, nil)
	ctx := context.Background()

	info, err := svc.FetchInfo(ctx, "  "+testURL+"  ")
	if err != nil {
		t.Fatalf("FetchInfo() error = %v", err)
	}
	if info.Title != "Test Video" || info.URL != testURL {
		t.Errorf("info = %+v", info)
	}
	if prev := svc.LastPreview(); prev == nil || prev.Title != "Test Video" {
		t.Errorf("LastPreview() = %+v", prev)
	}

	clock.Advance(30 * time.Minute)
	if _, err := svc.FetchInfo(ctx, testURL); err != nil {
		t.Fatalf("cached FetchInfo() error = %v", err)
	}
	if n := srv.Count(apitest.RouteInfo); n != 1 {
		t.Fatalf("info requests within TTL = %d, want 1", n)
	}

	clock.Advance(31 * time.Minute)
	if _, err := svc.FetchInfo(ctx, testURL); err != nil {
		t.Fatalf("expired FetchInfo() error = %v", err)
	}
	if n := srv.Count(apitest.RouteInfo); n != 2 {
		t.Fatalf("info requests after TTL = %d, want 2", n)
	}
}

func TestMetadataService_ClearPreview(t *testing.T) {
	srv := apitest.New(t)
	svc := NewMetadataService(newAPIClient(srv), clockwork.NewFakeClock(), nil)

	if _, err := svc.FetchInfo(context.Background(), testURL); err != nil {
		t.Fatalf("FetchInfo() error = %v", err)
	}
	svc.ClearPreview()
	if svc.LastPreview() != nil {
		t.Fatal("LastPreview() survived ClearPreview")
	}

	// Cache hit restores the preview without a request
	if _, err := svc.FetchInfo(context.Background(), testURL); err != nil {
		t.Fatalf("FetchInfo() error = %v", err)
	}
	if svc.LastPreview() == nil || srv.Count(apitest.RouteInfo) != 1 {
		t.Fatalf("preview = %v, requests = %d", svc.LastPreview(), srv.Count(apitest.RouteInfo))
	}
}

func TestMetadataService_EvictsLeastRecentlyUsed(t *testing.T) {
	srv := apitest.New(t)
	clock := clockwork.NewFakeClockAt(epoch)
	svc := NewMetadataService(newAPIClient(srv), clock, nil)
	svc.size = 2
	ctx := context.Background()

	urls := []string{"https://youtu.be/a", "https://youtu.be/b", "https://youtu.be/c"}
	svc.FetchInfo(ctx, urls[0])
	clock.Advance(time.Second)
	svc.FetchInfo(ctx, urls[1])
	clock.Advance(time.Second)
	svc.FetchInfo(ctx, urls[0]) // touch a, b is now oldest
	clock.Advance(time.Second)
	svc.FetchInfo(ctx, urls[2]) // evicts b

	before := srv.Count(apitest.RouteInfo)
	svc.FetchInfo(ctx, urls[0])
	if srv.Count(apitest.RouteInfo) != before {
		t.Error("a was evicted, want b evicted")
	}
	svc.FetchInfo(ctx, urls[1])
	if srv.Count(apitest.RouteInfo) != before+1 {
		t.Error("b still cached after eviction")
	}
}

func TestMetadataService_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
		want    string
	}{
		{"server message", http.StatusBadRequest, "Failed to fetch video info: Video unavailable", "Failed to fetch video info: Video unavailable"},
		{"rate limit", http.StatusTooManyRequests, "Rate limit exceeded", "Rate limit exceeded"},
		{"no message", http.StatusInternalServerError, "", "Failed to fetch video info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.New(t)
			srv.FailInfo(tt.code, tt.message)
			svc := NewMetadataService(newAPIClient(srv), clockwork.NewFakeClock(), nil)

			_, err := svc.FetchInfo(context.Background(), testURL)
			if err == nil {
				t.Fatal("FetchInfo() error = nil")
			}
			if got := domain.UserMessage(err, "Failed to fetch video info"); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
			if n := srv.Count(apitest.RouteInfo); n != 1 {
				t.Errorf("info requests = %d, want exactly 1", n)
			}
			if svc.LastPreview() != nil {
				t.Error("failed fetch set LastPreview")
			}
		})
	}
}
