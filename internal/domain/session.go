package domain

import (
	"strconv"
	"strings"
	"time"
)

// DownloadState is a state of the client-side download lifecycle
type DownloadState string

const (
	StateIdle        DownloadState = "idle"
	StateStarting    DownloadState = "starting"
	StateDownloading DownloadState = "downloading"
	StateProcessing  DownloadState = "processing"
	StateCompleted   DownloadState = "completed"
	StateError       DownloadState = "error"
)

// String returns the string representation of DownloadState
func (s DownloadState) String() string {
	return string(s)
}

// IsActive returns true while a download is in flight
func (s DownloadState) IsActive() bool {
	return s == StateStarting || s == StateDownloading || s == StateProcessing
}

// IsTerminal returns true once polling must stop
func (s DownloadState) IsTerminal() bool {
	return s == StateCompleted || s == StateError
}

// ProgressStatus is the status reported by the progress endpoint
type ProgressStatus string

const (
	StatusQueued      ProgressStatus = "queued"
	StatusDownloading ProgressStatus = "downloading"
	StatusProcessing  ProgressStatus = "processing"
	StatusCompleted   ProgressStatus = "completed"
	StatusError       ProgressStatus = "error"
	StatusUnknown     ProgressStatus = "unknown"
)

// Progress is one poll response from the progress endpoint
type Progress struct {
	Status  ProgressStatus
	Percent string // as reported, e.g. "45.2%"
	Speed   string
	ETA     string
	Message string
	Error   string
	Title   string
}

// NextState returns the state a poll response moves the session to.
// The second result is false when the response causes no transition:
// the session is not active, or the status is not one the client acts on.
func NextState(current DownloadState, status ProgressStatus) (DownloadState, bool) {
	if !current.IsActive() {
		return current, false
	}
	switch status {
	case StatusDownloading:
		return StateDownloading, true
	case StatusProcessing:
		return StateProcessing, true
	case StatusCompleted:
		return StateCompleted, true
	case StatusError:
		return StateError, true
	}
	return current, false
}

// Session is the client-side record of one download request
type Session struct {
	Generation  uint64 // increments for every Start
	DownloadID  string // assigned by the service, empty until the start request returns
	State       DownloadState
	Format      MediaFormat
	Quality     string
	AudioFormat string

	// Pending is captured at start and committed to history only on completion
	Pending *HistoryEntry

	Percent string
	Speed   string
	ETA     string
	Message string
	Error   string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Busy returns true while the download action must stay disabled
func (s Session) Busy() bool {
	return s.State.IsActive()
}

// PercentValue parses Percent for progress bar rendering, clamped to [0, 100]
func (s Session) PercentValue() float64 {
	return ParsePercent(s.Percent)
}

// ParsePercent parses strings like " 45.2%" leniently, returning 0 on failure
func ParsePercent(p string) float64 {
	p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "%"))
	v, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0
	}
	return min(max(v, 0), 100)
}

// SessionEventKind classifies a session change
type SessionEventKind int

const (
	EventStarting SessionEventKind = iota
	EventStarted
	EventProgress
	EventCompleted
	EventFailed
)

// SessionEvent reports a session change to observers
type SessionEvent struct {
	Kind    SessionEventKind
	Session Session

	// Committed is the history entry written on completion
	Committed *HistoryEntry
	// HistoryErr is set when the completed entry could not be persisted
	HistoryErr error
}

// SessionObserver receives session changes from the download controller.
type SessionObserver interface {
	OnSessionEvent(event SessionEvent)
}

// NoOpObserver discards session events (for testing/batch operations).
type NoOpObserver struct{}

func (NoOpObserver) OnSessionEvent(SessionEvent) {}
