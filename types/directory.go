package types

import "context"

// PresenceEventKind distinguishes connect from disconnect notifications.
type PresenceEventKind int

const (
	// PresenceConnect indicates a participant connected to this process.
	PresenceConnect PresenceEventKind = iota

	// PresenceDisconnect indicates a participant disconnected.
	PresenceDisconnect
)

// String returns the string representation of the event kind.
func (k PresenceEventKind) String() string {
	switch k {
	case PresenceConnect:
		return "connect"
	case PresenceDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// PresenceEvent is a single connect or disconnect notification.
type PresenceEvent struct {
	// Kind is the notification type.
	Kind PresenceEventKind

	// ID is the durable identifier of the participant.
	ID UserID

	// Handle is the live handle. It is nil for disconnects when the live
	// handle is no longer known.
	Handle Handle
}

// Directory resolves participants and reports their presence.
//
// A Directory is the library's view of the surrounding platform: it converts
// durable identifiers back into live handles during rehydration, answers
// friend-relation queries for the join policy, and streams connect and
// disconnect notifications that drive participant resolution and the
// idle-shutdown watcher.
//
// Implementations must be safe for concurrent use.
type Directory interface {
	// Resolve returns the live handle for a durable identifier, if the
	// participant is currently connected to this process.
	Resolve(id UserID) (Handle, bool)

	// Friends reports whether two participants have a friend relation.
	// The relation is symmetric.
	Friends(ctx context.Context, a, b UserID) (bool, error)

	// Connected returns the handles of all currently connected participants.
	Connected() []Handle

	// Watch streams presence events until the context is cancelled or the
	// returned cancel function is called. The channel is closed on
	// termination. Events may be dropped if the consumer falls behind.
	Watch(ctx context.Context) (<-chan PresenceEvent, func(), error)
}
