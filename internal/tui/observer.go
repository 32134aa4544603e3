package tui

import (
	"context"
	"sync"

	"github.com/mmcdole/tubegrab/internal/domain"
)

// ChannelObserver queues download session events for a single reader.
//
// OnSessionEvent never blocks: the download service calls it with its lock
// held. When the reader falls behind, consecutive progress events collapse
// into the newest one. Lifecycle events (starting, started, completed,
// failed) are always delivered, in order.
type ChannelObserver struct {
	mu      sync.Mutex
	pending []domain.SessionEvent
	ready   chan struct{} // signalled when pending gains an event
}

// NewChannelObserver creates an empty observer.
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ready: make(chan struct{}, 1)}
}

// OnSessionEvent queues the event.
func (o *ChannelObserver) OnSessionEvent(event domain.SessionEvent) {
	o.mu.Lock()
	if n := len(o.pending); n > 0 && event.Kind == domain.EventProgress &&
		o.pending[n-1].Kind == domain.EventProgress {
		// Each event carries the full session, so the older one adds nothing
		o.pending[n-1] = event
		o.mu.Unlock()
		return
	}
	o.pending = append(o.pending, event)
	o.mu.Unlock()

	select {
	case o.ready <- struct{}{}:
	default:
	}
}

// Next blocks until an event is queued or ctx is done.
func (o *ChannelObserver) Next(ctx context.Context) (domain.SessionEvent, bool) {
	for {
		if event, ok := o.pop(); ok {
			return event, true
		}
		select {
		case <-o.ready:
		case <-ctx.Done():
			return domain.SessionEvent{}, false
		}
	}
}

func (o *ChannelObserver) pop() (domain.SessionEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pending) == 0 {
		return domain.SessionEvent{}, false
	}
	event := o.pending[0]
	o.pending[0] = domain.SessionEvent{}
	o.pending = o.pending[1:]
	if len(o.pending) == 0 {
		o.pending = nil
	}
	return event, true
}
