package service

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/adapter/api"
	"github.com/mmcdole/tubegrab/internal/apitest"
	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/store"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

var epoch = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newMemoryStore(t *testing.T) *store.LocalStore {
	t.Helper()
	s, err := store.NewLocalStore("")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newAPIClient(srv *apitest.Server) *api.Client {
	return api.NewClient(srv.URL, "test-client", 5*time.Second, nil)
}

// eventRecorder collects session events without blocking the sender
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.SessionEvent
	ch     chan domain.SessionEvent
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{ch: make(chan domain.SessionEvent, 64)}
}

func (r *eventRecorder) OnSessionEvent(e domain.SessionEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	select {
	case r.ch <- e:
	default:
	}
}

func (r *eventRecorder) kinds() []domain.SessionEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SessionEventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// waitFor blocks until an event of kind arrives
func (r *eventRecorder) waitFor(t *testing.T, kind domain.SessionEventKind) domain.SessionEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e := <-r.ch:
			if e.Kind == kind {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event kind %d; got %v", kind, r.kinds())
			return domain.SessionEvent{}
		}
	}
}

type fixture struct {
	srv      *apitest.Server
	store    *store.LocalStore
	clock    clockwork.FakeClock
	history  *HistoryService
	download *DownloadService
	events   *eventRecorder
}

func newFixture(t *testing.T, opts DownloadOptions) *fixture {
	t.Helper()
	f := &fixture{
		srv:    apitest.New(t),
		store:  newMemoryStore(t),
		clock:  clockwork.NewFakeClockAt(epoch),
		events: newEventRecorder(),
	}
	if opts.Interval == 0 {
		opts.Interval = time.Second
	}
	opts.Clock = f.clock
	f.history = NewHistoryService(f.store, f.clock, nil)
	f.download = NewDownloadService(newAPIClient(f.srv), f.history, opts, nil)
	f.download.SetObserver(f.events)
	t.Cleanup(f.download.Stop)
	return f
}
