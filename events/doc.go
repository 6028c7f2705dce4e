// Package events provides in-process typed event streams.
//
// A Stream[T] delivers emitted values synchronously to every subscriber in
// the emitting goroutine, which matches the library's single-writer mutation
// model: a membership change and its notifications complete before the next
// mutation begins.
//
// A Scope owns a set of streams (or any other Closer) and releases them all
// at once; each party uses one scope so destroying the party tears down its
// member-added, member-removed and owner-changed streams atomically.
package events
