package events

import "sync"

// Stream is an in-process typed event stream.
//
// Subscribers are invoked synchronously, in unspecified order, from the
// goroutine calling Emit. Callbacks must not block; long-running work should
// be handed off to another goroutine by the subscriber.
//
// All methods are safe for concurrent use. Subscribing or cancelling from
// inside a callback is allowed and takes effect for subsequent emissions.
type Stream[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]func(T)
	nextID uint64
	closed bool
}

// NewStream creates an empty stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[uint64]func(T))}
}

// Subscribe registers a callback for future emissions.
//
// Returns a cancel function that removes the subscription. Cancelling twice
// is a no-op. Subscribing to a closed stream returns a no-op cancel and the
// callback is never invoked.
func (s *Stream[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Emit delivers the value to every current subscriber.
//
// Emitting on a closed stream is a no-op.
func (s *Stream[T]) Emit(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	// Snapshot callbacks so subscribers can (un)subscribe re-entrantly.
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Close drops all subscribers and makes the stream inert.
//
// Safe to call multiple times.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.subs = nil
}

// SubscriberCount returns the number of active subscriptions.
func (s *Stream[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.subs)
}
