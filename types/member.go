package types

// UserID is the durable participant identifier.
//
// Unlike a Handle, a UserID stays valid across process boundaries and is
// what gets persisted in handoff snapshots.
type UserID int64

// PlaceID identifies the destination place a party travels to.
type PlaceID string

// Handle is a live participant handle bound to the current process.
//
// Handles are produced by a Directory and must never be persisted; convert
// them to UserIDs before crossing a process boundary.
type Handle interface {
	// UserID returns the durable identifier behind this handle.
	UserID() UserID

	// Name returns the participant's display name.
	Name() string
}

// Member is one roster slot of a party.
//
// A member always carries its durable ID. The live handle is present only
// while the participant is resolved on the current process; after a handoff
// (or before rehydration completes) the handle is nil and the slot is
// identified by ID alone.
type Member struct {
	ID     UserID
	Handle Handle
}

// Resolved reports whether the member has a live handle on this process.
func (m Member) Resolved() bool {
	return m.Handle != nil
}

// NewMember builds a resolved member from a live handle.
func NewMember(h Handle) Member {
	return Member{ID: h.UserID(), Handle: h}
}

// UnresolvedMember builds a member slot holding only a durable identifier.
func UnresolvedMember(id UserID) Member {
	return Member{ID: id}
}

// OwnerChange describes an ownership transfer within a party.
type OwnerChange struct {
	// Previous is the durable identifier of the outgoing owner.
	Previous UserID

	// Current is the durable identifier of the new owner.
	Current UserID
}
