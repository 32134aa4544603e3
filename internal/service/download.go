package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/validate"
)

const (
	defaultPollInterval = time.Second

	fallbackFailure    = "Download failed"
	fallbackProcessing = "Processing..."
	unknownTitle       = "Unknown"
)

// downloadAPI abstracts the download endpoints (consumer-defined interface)
type downloadAPI interface {
	StartDownload(ctx context.Context, req domain.DownloadRequest) (string, error)
	GetProgress(ctx context.Context, downloadID string) (*domain.Progress, error)
}

// historyAppender records completed downloads
type historyAppender interface {
	Append(entry domain.HistoryEntry) (domain.HistoryEntry, error)
}

// DownloadOptions tunes the poll task
type DownloadOptions struct {
	Clock       clockwork.Clock
	Interval    time.Duration // time between progress polls
	MaxFailures int           // consecutive failed polls before giving up, 0 = never
}

// DownloadService drives one download at a time through the lifecycle
// idle → starting → downloading/processing → completed/error.
type DownloadService struct {
	api         downloadAPI
	history     historyAppender
	clock       clockwork.Clock
	interval    time.Duration
	maxFailures int
	logger      *slog.Logger

	mu       sync.Mutex
	observer domain.SessionObserver
	session  domain.Session
	failures int
	cancel   context.CancelFunc // stops the current poll task
}

// NewDownloadService creates a new download service
func NewDownloadService(api downloadAPI, history historyAppender, opts DownloadOptions, logger *slog.Logger) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultPollInterval
	}
	return &DownloadService{
		api:         api,
		history:     history,
		clock:       opts.Clock,
		interval:    opts.Interval,
		maxFailures: opts.MaxFailures,
		logger:      logger,
		observer:    domain.NoOpObserver{},
		session:     domain.Session{State: domain.StateIdle},
	}
}

// SetObserver registers the receiver of session events
func (s *DownloadService) SetObserver(o domain.SessionObserver) {
	if o == nil {
		o = domain.NoOpObserver{}
	}
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// Snapshot returns a copy of the current session
func (s *DownloadService) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Busy reports whether a download is in flight
func (s *DownloadService) Busy() bool {
	return s.Snapshot().Busy()
}

// Start requests a download for req. The URL is validated first; an invalid
// URL returns an error without touching the session. preview supplies the
// title and thumbnail recorded in history and may be nil.
//
// Any poll task from an earlier download is cancelled. The new task keeps
// running after ctx is done; use Stop to end it.
func (s *DownloadService) Start(ctx context.Context, req domain.DownloadRequest, preview *domain.VideoInfo) error {
	req.URL = strings.TrimSpace(req.URL)
	if err := validate.CheckURL(req.URL); err != nil {
		return err
	}
	if req.Format == "" {
		req.Format = domain.FormatVideo
	}

	pending := &domain.HistoryEntry{
		URL:     req.URL,
		Title:   unknownTitle,
		Format:  req.Format,
		Quality: req.SelectedQuality(),
	}
	if preview != nil {
		if preview.Title != "" {
			pending.Title = preview.Title
		}
		pending.Thumbnail = preview.Thumbnail
	}

	s.mu.Lock()
	s.stopLocked()
	gen := s.session.Generation + 1
	s.session = domain.Session{
		Generation:  gen,
		State:       domain.StateStarting,
		Format:      req.Format,
		Quality:     req.Quality,
		AudioFormat: req.AudioFormat,
		Pending:     pending,
		StartedAt:   s.clock.Now(),
	}
	s.failures = 0
	s.notifyLocked(domain.SessionEvent{Kind: domain.EventStarting})
	s.mu.Unlock()

	s.logger.Info("starting download", "url", req.URL, "format", req.Format, "quality", req.SelectedQuality())

	id, err := s.api.StartDownload(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Generation != gen {
		// Superseded by a newer Start while the request was in flight
		if err != nil {
			return fmt.Errorf("start download: %w", err)
		}
		return nil
	}

	if err != nil {
		s.logger.Error("failed to start download", "url", req.URL, "error", err)
		s.finishLocked(domain.StateError)
		s.session.Error = domain.UserMessage(err, fallbackFailure)
		s.session.Pending = nil
		s.notifyLocked(domain.SessionEvent{Kind: domain.EventFailed})
		return fmt.Errorf("start download: %w", err)
	}

	s.session.DownloadID = id
	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.notifyLocked(domain.SessionEvent{Kind: domain.EventStarted})

	go s.run(pollCtx, gen)
	return nil
}

// Stop cancels the poll task, if any. The session keeps its last state.
func (s *DownloadService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *DownloadService) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// run ticks Poll every interval until the session reaches a terminal state,
// is superseded, or ctx ends.
func (s *DownloadService) run(ctx context.Context, gen uint64) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if done := s.poll(ctx, gen); done {
				return
			}
		}
	}
}

// Poll performs one progress poll for the current download
func (s *DownloadService) Poll(ctx context.Context) error {
	s.mu.Lock()
	gen := s.session.Generation
	ready := s.session.State.IsActive() && s.session.DownloadID != ""
	s.mu.Unlock()

	if !ready {
		return domain.ErrNoDownload
	}
	s.poll(ctx, gen)
	return nil
}

// poll fetches progress for generation gen and applies it. It returns true
// when no further polls should be made for gen.
func (s *DownloadService) poll(ctx context.Context, gen uint64) bool {
	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		return true
	}
	id := s.session.DownloadID
	s.mu.Unlock()

	progress, err := s.api.GetProgress(ctx, id)

	s.mu.Lock()
	if !s.currentLocked(gen) {
		// Stale tick: superseded or already terminal
		s.mu.Unlock()
		return true
	}

	if err != nil {
		defer s.mu.Unlock()
		if ctx.Err() != nil {
			return true
		}
		s.failures++
		s.logger.Warn("progress poll failed", "download_id", id, "failures", s.failures, "error", err)
		if s.maxFailures > 0 && s.failures >= s.maxFailures {
			s.finishLocked(domain.StateError)
			s.session.Error = domain.UserMessage(err, fallbackFailure)
			s.session.Pending = nil
			s.notifyLocked(domain.SessionEvent{Kind: domain.EventFailed})
			return true
		}
		return false
	}
	s.failures = 0

	next, ok := domain.NextState(s.session.State, progress.Status)
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("progress status ignored", "download_id", id, "status", progress.Status)
		return false
	}

	var pending *domain.HistoryEntry
	event := domain.SessionEvent{Kind: domain.EventProgress}

	switch next {
	case domain.StateDownloading:
		s.session.State = next
		s.session.Percent = progress.Percent
		s.session.Speed = progress.Speed
		s.session.ETA = progress.ETA
	case domain.StateProcessing:
		s.session.State = next
		s.session.Percent = "100%"
		s.session.Speed = ""
		s.session.ETA = ""
		s.session.Message = firstNonEmpty(progress.Message, fallbackProcessing)
	case domain.StateCompleted:
		s.finishLocked(next)
		s.session.Percent = "100%"
		s.session.Speed = ""
		s.session.ETA = ""
		pending, s.session.Pending = s.session.Pending, nil
		event.Kind = domain.EventCompleted
	case domain.StateError:
		s.finishLocked(next)
		s.session.Error = firstNonEmpty(progress.Error, progress.Message, fallbackFailure)
		s.session.Pending = nil
		event.Kind = domain.EventFailed
	}

	if pending == nil {
		s.notifyLocked(event)
		s.mu.Unlock()
		return next.IsTerminal()
	}
	event.Session = s.session
	s.mu.Unlock()

	if pending.Title == unknownTitle && progress.Title != "" {
		pending.Title = progress.Title
	}
	committed, herr := s.history.Append(*pending)
	event.Committed = &committed
	event.HistoryErr = herr
	s.logger.Info("download completed", "download_id", id, "title", committed.Title)

	s.mu.Lock()
	s.observer.OnSessionEvent(event)
	s.mu.Unlock()
	return true
}

// currentLocked reports whether gen is the live, pollable session. Caller holds mu.
func (s *DownloadService) currentLocked(gen uint64) bool {
	return s.session.Generation == gen && s.session.State.IsActive() && s.session.DownloadID != ""
}

func (s *DownloadService) finishLocked(state domain.DownloadState) {
	s.session.State = state
	s.session.FinishedAt = s.clock.Now()
	s.stopLocked()
}

// notifyLocked sends event with the current session attached. Caller holds mu,
// which keeps events in state order.
func (s *DownloadService) notifyLocked(event domain.SessionEvent) {
	event.Session = s.session
	s.observer.OnSessionEvent(event)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
