package tui

import "github.com/mmcdole/tubegrab/internal/domain"

// Message types for the TUI

// InfoFetchedMsg carries the result of a metadata fetch
type InfoFetchedMsg struct {
	Seq  int // matches Model.fetchSeq unless superseded
	URL  string
	Info *domain.VideoInfo
	Err  error
}

// DownloadStartedMsg signals that DownloadService.Start returned.
// Session changes arrive separately as SessionEventMsg.
type DownloadStartedMsg struct {
	Err error
}

// SessionEventMsg wraps a download session event
type SessionEventMsg struct {
	Event domain.SessionEvent
}

// HideProgressMsg hides the progress panel if Generation is still current
type HideProgressMsg struct {
	Generation uint64
}

// ClipboardMsg carries text read from the system clipboard
type ClipboardMsg struct {
	Text string
	Err  error
}

// LinkOpenedMsg signals that a browser launch finished
type LinkOpenedMsg struct {
	Err error
}

// ToastExpiredMsg removes a notification
type ToastExpiredMsg struct {
	ID int
}

// WelcomeMsg shows the welcome notification
type WelcomeMsg struct{}

// TickMsg is sent periodically for animations
type TickMsg struct{}
