package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/service"
)

// Command factories for async operations

// infoTimeout bounds a metadata fetch; the server may have to resolve the URL
const infoTimeout = 60 * time.Second

// FetchInfoCmd fetches metadata for url
func FetchInfoCmd(svc *service.MetadataService, seq int, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), infoTimeout)
		defer cancel()

		info, err := svc.FetchInfo(ctx, url)
		return InfoFetchedMsg{Seq: seq, URL: url, Info: info, Err: err}
	}
}

// StartDownloadCmd asks the download service to start req. Polling
// continues in the background after the command returns.
func StartDownloadCmd(svc *service.DownloadService, req domain.DownloadRequest, preview *domain.VideoInfo) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx, req, preview)
		return DownloadStartedMsg{Err: err}
	}
}

// WaitForSessionEventCmd waits for the next download session event.
// Re-issue it after every SessionEventMsg to keep listening.
func WaitForSessionEventCmd(events *ChannelObserver) tea.Cmd {
	return func() tea.Msg {
		event, ok := events.Next(context.Background())
		if !ok {
			return nil
		}
		return SessionEventMsg{Event: event}
	}
}

// ReadClipboardCmd reads text from the clipboard
func ReadClipboardCmd(cb ClipboardReader) tea.Cmd {
	return func() tea.Msg {
		if cb == nil {
			return ClipboardMsg{Err: errClipboardUnavailable}
		}
		text, err := cb.Read()
		return ClipboardMsg{Text: text, Err: err}
	}
}

// OpenLinkCmd runs open, which launches a browser
func OpenLinkCmd(open func() error) tea.Cmd {
	return func() tea.Msg {
		return LinkOpenedMsg{Err: open()}
	}
}

// HideProgressCmd hides the progress panel for generation after delay
func HideProgressCmd(generation uint64, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return HideProgressMsg{Generation: generation}
	})
}

// ExpireToastCmd dismisses toast id after delay
func ExpireToastCmd(id int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// WelcomeCmd shows the welcome notification after delay
func WelcomeCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return WelcomeMsg{}
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}
