package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/format"
	"github.com/mmcdole/tubegrab/internal/tui"
	"github.com/mmcdole/tubegrab/internal/tui/components"
	"github.com/mmcdole/tubegrab/internal/validate"
)

// headlessBarWidth is the width of the in-place progress bar
const headlessBarWidth = 30

func (a *app) runDownload(ctx context.Context, cmd *downloadCmd) error {
	req := domain.DownloadRequest{
		URL:         validate.Clean(cmd.URL),
		Format:      domain.ParseMediaFormat(firstNonEmpty(cmd.Format, a.cfg.Download.Format)),
		Quality:     firstNonEmpty(cmd.Quality, a.cfg.Download.Quality),
		AudioFormat: firstNonEmpty(cmd.AudioFormat, a.cfg.Download.AudioFormat),
	}

	if validate.IsPlaylistURL(cmd.URL) {
		fmt.Fprintln(os.Stderr, "warning: playlist link detected, only single videos are downloaded")
	}

	// The preview only supplies the history title; a failed fetch is not fatal
	preview, err := a.metadata.FetchInfo(ctx, req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyURL) || errors.Is(err, domain.ErrInvalidURL) {
			return errors.New(domain.UserMessage(err, ""))
		}
		a.logger.Warn("metadata fetch failed, downloading without preview", "error", err)
	} else {
		fmt.Printf("%s\n", format.Sanitize(preview.Title))
	}

	events := tui.NewChannelObserver()
	a.downloads.SetObserver(events)

	if err := a.downloads.Start(ctx, req, preview); err != nil {
		return errors.New(domain.UserMessage(err, "Failed to start download"))
	}

	printer := newProgressPrinter(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	return followSession(ctx, events, printer, a.downloads.Stop)
}

// followSession prints session events until the download finishes. stop is
// called when ctx ends first.
func followSession(ctx context.Context, events *tui.ChannelObserver, printer *progressPrinter, stop func()) error {
	for {
		ev, ok := events.Next(ctx)
		if !ok {
			stop()
			printer.Finish()
			return errors.New("download interrupted")
		}
		printer.Print(ev.Session)

		switch ev.Kind {
		case domain.EventCompleted:
			printer.Finish()
			if ev.HistoryErr != nil {
				fmt.Fprintf(os.Stderr, "warning: history could not be saved: %v\n", ev.HistoryErr)
			}
			return nil
		case domain.EventFailed:
			printer.Finish()
			return errors.New(firstNonEmpty(ev.Session.Error, "Download failed"))
		}
	}
}

// progressPrinter renders session progress. On a terminal it redraws one
// line in place; otherwise it prints a line for every change.
type progressPrinter struct {
	w    io.Writer
	tty  bool
	last string
}

func newProgressPrinter(w io.Writer, tty bool) *progressPrinter {
	return &progressPrinter{w: w, tty: tty}
}

// Print writes the session line if it changed since the last call
func (p *progressPrinter) Print(s domain.Session) {
	line := progressLine(s, p.tty)
	if line == "" || line == p.last {
		return
	}
	p.last = line

	if p.tty {
		fmt.Fprintf(p.w, "\r\x1b[2K%s", line)
		return
	}
	fmt.Fprintln(p.w, line)
}

// Finish ends the in-place line
func (p *progressPrinter) Finish() {
	if p.tty && p.last != "" {
		fmt.Fprintln(p.w)
	}
}

// progressLine formats one status line for the session
func progressLine(s domain.Session, bar bool) string {
	status := components.StatusText(s)
	if status == "" {
		return ""
	}

	parts := []string{status}
	if s.State == domain.StateDownloading || s.State == domain.StateProcessing {
		percent := s.PercentValue()
		if bar {
			parts = append(parts, renderBar(percent, headlessBarWidth))
		}
		parts = append(parts, fmt.Sprintf("%5.1f%%", percent))
		if s.Speed != "" {
			parts = append(parts, format.Sanitize(s.Speed))
		}
		if s.ETA != "" {
			parts = append(parts, "ETA "+format.Sanitize(s.ETA))
		}
	}
	if s.State == domain.StateError && s.Error != "" {
		parts = append(parts, format.Sanitize(s.Error))
	}
	return strings.Join(parts, "  ")
}

// renderBar draws an unstyled bar for plain terminals
func renderBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
