// Package apitest provides an in-process fake of the download service for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Route names for Count
const (
	RouteInfo     = "info"
	RouteDownload = "download"
	RouteProgress = "progress"
	RouteStats    = "stats"
	RouteHealth   = "health"
)

// Step is one scripted reply from the progress endpoint
type Step struct {
	Code int            // HTTP status, 0 means 200
	Body map[string]any // JSON body
	Raw  string         // sent verbatim instead of Body when set
}

// Downloading reports transfer progress
func Downloading(percent, speed, eta string) Step {
	return Step{Body: map[string]any{"status": "downloading", "percent": percent, "speed": speed, "eta": eta}}
}

// Processing reports post-processing
func Processing(message string) Step {
	body := map[string]any{"status": "processing", "percent": "100%"}
	if message != "" {
		body["message"] = message
	}
	return Step{Body: body}
}

// Completed reports success
func Completed(title string) Step {
	return Step{Body: map[string]any{"status": "completed", "percent": "100%", "title": title, "filesize": 1024}}
}

// Failed reports a server-side failure
func Failed(message string) Step {
	body := map[string]any{"status": "error"}
	if message != "" {
		body["error"] = message
	}
	return Step{Body: body}
}

// Queued reports a download that has not started yet
func Queued() Step {
	return Step{Body: map[string]any{"status": "queued", "percent": "0%", "message": "Download queued..."}}
}

// Unknown reports an id the service does not know
func Unknown() Step {
	return Step{Body: map[string]any{"status": "unknown", "error": "Download ID not found"}}
}

// Garbled replies with a body that is not JSON
func Garbled() Step {
	return Step{Code: http.StatusOK, Raw: "<html>upstream hiccup</html>"}
}

// Server is a scripted fake download service
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	counts       map[string]int
	info         map[string]any
	infoFail     *Step
	downloadFail *Step
	downloadID   string
	steps        []Step
	next         int
	lastDownload map[string]string
	clientIDs    []string
}

// New starts a fake service that is closed when the test ends
func New(t testing.TB) *Server {
	s := &Server{
		counts:     make(map[string]int),
		downloadID: "dl-1",
		info: map[string]any{
			"title":           "Test Video",
			"uploader":        "Test Channel",
			"duration":        212,
			"thumbnail":       "https://i.ytimg.com/vi/abc/hqdefault.jpg",
			"description":     "A test video",
			"filesize_approx": 1048576,
			"view_count":      1234,
			"upload_date":     "20240101",
		},
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/info", s.handleInfo)
		r.Post("/download", s.handleDownload)
		r.Get("/progress/{id}", s.handleProgress)
		r.Get("/stats", s.handleStats)
		r.Get("/health", s.handleHealth)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetInfo replaces the metadata payload
func (s *Server) SetInfo(info map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

// FailInfo makes the info endpoint reply with code and message. An empty
// message sends a body without an error field.
func (s *Server) FailInfo(code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infoFail = errorStep(code, message)
}

// FailDownload makes the download endpoint reply with code and message
func (s *Server) FailDownload(code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadFail = errorStep(code, message)
}

// RateLimitDownload makes the download endpoint reply 429 with a
// retry_after hint, the way a rate-limited service does
func (s *Server) RateLimitDownload(message, retryAfter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := errorStep(http.StatusTooManyRequests, message)
	step.Body["retry_after"] = retryAfter
	s.downloadFail = step
}

// SetDownloadID sets the id returned by the next download requests
func (s *Server) SetDownloadID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadID = id
}

// Script sets the progress replies. Each poll consumes one step; the last
// step repeats once the script is exhausted.
func (s *Server) Script(steps ...Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = steps
	s.next = 0
}

// Count returns how many requests a route has served
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[route]
}

// LastDownload returns the body of the most recent download request
func (s *Server) LastDownload() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDownload
}

// ClientIDs returns the X-Client-ID header of every request, in order
func (s *Server) ClientIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clientIDs...)
}

func errorStep(code int, message string) *Step {
	body := map[string]any{}
	if message != "" {
		body["error"] = message
	}
	return &Step{Code: code, Body: body}
}

func (s *Server) record(route string, r *http.Request) {
	s.counts[route]++
	s.clientIDs = append(s.clientIDs, r.Header.Get("X-Client-ID"))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.record(RouteInfo, r)
	fail, info := s.infoFail, s.info
	s.mu.Unlock()

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "No URL provided")
		return
	}
	if fail != nil {
		writeStep(w, *fail)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	decodeErr := json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	s.record(RouteDownload, r)
	s.lastDownload = req
	fail, id := s.downloadFail, s.downloadID
	s.mu.Unlock()

	if decodeErr != nil || req["url"] == "" {
		writeError(w, http.StatusBadRequest, "No URL provided")
		return
	}
	if fail != nil {
		writeStep(w, *fail)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"download_id": id,
		"message":     "Download started successfully",
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.record(RouteProgress, r)
	step := Unknown()
	if len(s.steps) > 0 {
		idx := s.next
		if idx >= len(s.steps) {
			idx = len(s.steps) - 1
		} else {
			s.next++
		}
		step = s.steps[idx]
	}
	s.mu.Unlock()

	writeStep(w, step)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.record(RouteStats, r)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int64{
		"total_downloads":        3,
		"successful_downloads":   2,
		"failed_downloads":       1,
		"total_bytes_downloaded": 5 * 1024 * 1024,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.record(RouteHealth, r)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"timestamp":        "2024-01-01T00:00:00",
		"active_downloads": 0,
	})
}

func writeStep(w http.ResponseWriter, step Step) {
	code := step.Code
	if code == 0 {
		code = http.StatusOK
	}
	if step.Raw != "" {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(code)
		w.Write([]byte(step.Raw))
		return
	}
	writeJSON(w, code, step.Body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
