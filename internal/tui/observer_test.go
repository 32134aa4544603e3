package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/tubegrab/internal/domain"
)

func progressEvent(i int) domain.SessionEvent {
	return domain.SessionEvent{
		Kind: domain.EventProgress,
		Session: domain.Session{
			State:   domain.StateDownloading,
			Percent: fmt.Sprintf("%d%%", i),
		},
	}
}

func drain(t *testing.T, o *ChannelObserver) []domain.SessionEvent {
	t.Helper()
	var out []domain.SessionEvent
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		ev, ok := o.Next(ctx)
		cancel()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestChannelObserver_CompletionSurvivesStalledReader(t *testing.T) {
	o := NewChannelObserver()

	// Nobody reads while the download runs to the end
	for i := 0; i < 64; i++ {
		o.OnSessionEvent(progressEvent(i))
	}
	o.OnSessionEvent(domain.SessionEvent{
		Kind:    domain.EventCompleted,
		Session: domain.Session{State: domain.StateCompleted},
	})

	got := drain(t, o)
	if len(got) == 0 {
		t.Fatal("no events delivered")
	}
	last := got[len(got)-1]
	if last.Kind != domain.EventCompleted {
		t.Fatalf("last event = %v, want completed", last.Kind)
	}
}

func TestChannelObserver_ProgressCollapsesLifecycleKept(t *testing.T) {
	o := NewChannelObserver()

	o.OnSessionEvent(domain.SessionEvent{Kind: domain.EventStarting})
	o.OnSessionEvent(domain.SessionEvent{Kind: domain.EventStarted})
	for i := 1; i <= 100; i++ {
		o.OnSessionEvent(progressEvent(i))
	}
	o.OnSessionEvent(domain.SessionEvent{Kind: domain.EventFailed})

	got := drain(t, o)
	kinds := make([]domain.SessionEventKind, len(got))
	for i, ev := range got {
		kinds[i] = ev.Kind
	}
	want := []domain.SessionEventKind{
		domain.EventStarting, domain.EventStarted, domain.EventProgress, domain.EventFailed,
	}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if got[2].Session.Percent != "100%" {
		t.Errorf("collapsed progress = %q, want the newest (100%%)", got[2].Session.Percent)
	}
}

func TestChannelObserver_NextStopsWithContext(t *testing.T) {
	o := NewChannelObserver()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() {
		_, ok := o.Next(ctx)
		done <- ok
	}()
	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Error("Next() reported an event after cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Next() did not return after cancel")
	}
}

func TestChannelObserver_ProducerNeverBlocks(t *testing.T) {
	o := NewChannelObserver()

	// The download service holds its lock while notifying
	var mu sync.Mutex
	produced := make(chan struct{})
	go func() {
		defer close(produced)
		for i := 0; i < 1000; i++ {
			mu.Lock()
			o.OnSessionEvent(progressEvent(i % 100))
			mu.Unlock()
		}
		mu.Lock()
		o.OnSessionEvent(domain.SessionEvent{Kind: domain.EventCompleted})
		mu.Unlock()
	}()

	select {
	case <-produced:
	case <-time.After(5 * time.Second):
		t.Fatal("producer blocked with no reader")
	}

	got := drain(t, o)
	if len(got) != 2 || got[1].Kind != domain.EventCompleted {
		t.Fatalf("got %d events, want collapsed progress then completed", len(got))
	}
}

func TestChannelObserver_ConcurrentReaderSeesCompletion(t *testing.T) {
	o := NewChannelObserver()

	result := make(chan domain.SessionEventKind, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for {
			ev, ok := o.Next(ctx)
			if !ok {
				result <- domain.EventStarting
				return
			}
			if ev.Kind == domain.EventCompleted {
				result <- ev.Kind
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	for i := 0; i < 200; i++ {
		o.OnSessionEvent(progressEvent(i % 100))
	}
	o.OnSessionEvent(domain.SessionEvent{Kind: domain.EventCompleted})

	if kind := <-result; kind != domain.EventCompleted {
		t.Fatal("reader timed out before the completed event")
	}
}
