package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/tubegrab/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "client-123", 5*time.Second, nil)
}

func TestClient_GetInfo(t *testing.T) {
	var gotBody map[string]string
	var gotHeader string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/info" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		gotHeader = r.Header.Get("X-Client-ID")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "Song",
			"uploader": "Band",
			"duration": 212.4,
			"thumbnail": "https://i.ytimg.com/vi/abc/hq.jpg",
			"description": "",
			"filesize_approx": 1536,
			"view_count": 1000000,
			"upload_date": "20240101",
			"formats": [{"quality": "1080p", "height": 1080, "ext": "mp4"}]
		}`))
	})

	info, err := c.GetInfo(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if gotBody["url"] != "https://youtu.be/abc" {
		t.Errorf("request body url = %q", gotBody["url"])
	}
	if gotHeader != "client-123" {
		t.Errorf("X-Client-ID = %q", gotHeader)
	}
	if info.Title != "Song" || info.Duration != 212 || info.FileSize != 1536 || info.ViewCount != 1000000 {
		t.Errorf("info = %+v", info)
	}
	if len(info.Formats) != 1 || info.Formats[0].Height != 1080 {
		t.Errorf("formats = %+v", info.Formats)
	}
	if info.URL != "https://youtu.be/abc" {
		t.Errorf("info.URL = %q", info.URL)
	}
}

func TestClient_ServerErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantRetry   string
	}{
		{"error text", http.StatusBadRequest, `{"error": "Invalid YouTube URL"}`, "Invalid YouTube URL", ""},
		{"rate limited", http.StatusTooManyRequests, `{"error": "Rate limit exceeded", "retry_after": "10 per 1 hour"}`, "Rate limit exceeded", "10 per 1 hour"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetInfo(context.Background(), "https://youtu.be/abc")
			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("GetInfo() error = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMessage || apiErr.RetryAfter != tt.wantRetry {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestClient_StartDownload(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"download_id": "dl-1", "message": "Download started successfully"}`))
	})

	id, err := c.StartDownload(context.Background(), domain.DownloadRequest{
		URL:         "https://youtu.be/abc",
		Format:      domain.FormatAudio,
		Quality:     "best",
		AudioFormat: "flac",
	})
	if err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	if id != "dl-1" {
		t.Errorf("id = %q", id)
	}
	if got["format"] != "audio" || got["audioFormat"] != "flac" || got["quality"] != "best" {
		t.Errorf("request body = %v", got)
	}
}

func TestClient_StartDownloadMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "ok"}`))
	})
	if _, err := c.StartDownload(context.Background(), domain.DownloadRequest{URL: "https://youtu.be/abc"}); err == nil {
		t.Fatal("StartDownload() without download_id returned nil error")
	}
}

func TestClient_GetProgress(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  domain.ProgressStatus
		wantPercent string
		wantErr     bool
	}{
		{"downloading", 200, `{"status": "downloading", "percent": "45.2%", "speed": "1.2MiB/s", "eta": "00:12"}`, domain.StatusDownloading, "45.2%", false},
		{"numeric percent", 200, `{"status": "downloading", "percent": 45.5}`, domain.StatusDownloading, "45.5", false},
		{"unknown id", 200, `{"status": "unknown", "error": "Download ID not found"}`, domain.StatusUnknown, "", false},
		{"status on 404", 404, `{"status": "unknown"}`, domain.StatusUnknown, "", false},
		{"server error", 500, `{"error": "Internal server error"}`, "", "", true},
		{"garbage", 200, `not json`, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/progress/dl-1" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			p, err := c.GetProgress(context.Background(), "dl-1")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("GetProgress() = %+v, want error", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetProgress() error = %v", err)
			}
			if p.Status != tt.wantStatus || p.Percent != tt.wantPercent {
				t.Errorf("progress = %+v", p)
			}
		})
	}
}

func TestClient_Offline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, "", time.Second, nil)
	_, err := c.GetProgress(context.Background(), "dl-1")
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("GetProgress() error = %v, want ErrServerOffline", err)
	}
}

func TestClient_CanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetStats(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("GetStats() error = %v, want context.Canceled", err)
	}
}

func TestClient_StatsAndHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stats":
			w.Write([]byte(`{"total_downloads": 5, "successful_downloads": 4, "failed_downloads": 1, "total_bytes_downloaded": 2048}`))
		case "/api/health":
			w.Write([]byte(`{"status": "healthy", "timestamp": "2024-01-01T00:00:00", "active_downloads": 2}`))
		default:
			http.NotFound(w, r)
		}
	})

	stats, err := c.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalDownloads != 5 || stats.FailedDownloads != 1 || stats.TotalBytes != 2048 {
		t.Errorf("stats = %+v", stats)
	}

	health, err := c.GetHealth(context.Background())
	if err != nil {
		t.Fatalf("GetHealth() error = %v", err)
	}
	if health.Status != "healthy" || health.ActiveDownloads != 2 {
		t.Errorf("health = %+v", health)
	}
}

func TestClient_SetClientIDAppliesToLaterRequests(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("X-Client-ID"))
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if _, err := c.GetHealth(context.Background()); err != nil {
		t.Fatalf("GetHealth() error = %v", err)
	}
	c.SetClientID("client-456")
	if _, err := c.GetHealth(context.Background()); err != nil {
		t.Fatalf("GetHealth() error = %v", err)
	}

	if len(got) != 2 || got[0] != "client-123" || got[1] != "client-456" {
		t.Errorf("X-Client-ID headers = %v", got)
	}
}
