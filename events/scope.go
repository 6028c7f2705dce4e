package events

import "sync"

// Closer is any resource a Scope can release.
type Closer interface {
	Close()
}

// Scope owns a set of resources and releases them together.
//
// Resources are closed in reverse registration order. Close is idempotent;
// resources added after Close are closed immediately.
type Scope struct {
	mu      sync.Mutex
	closers []Closer
	closed  bool
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add registers a resource with the scope.
func (s *Scope) Add(c Closer) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.Close()

		return
	}

	s.closers = append(s.closers, c)
	s.mu.Unlock()
}

// Close releases every registered resource in reverse order.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close()
	}
}
