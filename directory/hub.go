package directory

import (
	"context"
	"sync"

	"github.com/denispionicul/party/types"
)

// watchHub fans presence events out to Watch subscribers.
//
// Delivery is non-blocking: a subscriber that stops draining its channel
// loses events rather than stalling the publisher.
type watchHub struct {
	mu       sync.Mutex
	nextID   uint64
	watchers map[uint64]chan types.PresenceEvent
	closed   bool
}

const watchBuffer = 64

func newWatchHub() *watchHub {
	return &watchHub{watchers: make(map[uint64]chan types.PresenceEvent)}
}

// subscribe registers a new watcher bound to ctx. The returned cancel
// function is idempotent; cancellation of ctx also removes the watcher.
func (h *watchHub) subscribe(ctx context.Context) (<-chan types.PresenceEvent, func()) {
	ch := make(chan types.PresenceEvent, watchBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.watchers[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.watchers[id]; ok {
				delete(h.watchers, id)
				close(ch)
			}
			h.mu.Unlock()
		})
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}

	return ch, cancel
}

// broadcast delivers an event to all current watchers without blocking.
func (h *watchHub) broadcast(event types.PresenceEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.watchers {
		select {
		case ch <- event:
		default:
			// Slow watcher; drop rather than block presence processing.
		}
	}
}

// close removes and closes all watchers. Further subscriptions get a closed
// channel.
func (h *watchHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.watchers {
		delete(h.watchers, id)
		close(ch)
	}
}
