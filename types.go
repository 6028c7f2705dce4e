package party

import "github.com/denispionicul/party/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `party`
// package, while still providing a convenient `party.Member`,
// `party.Logger`, etc. for users.
type (
	UserID        = types.UserID
	PlaceID       = types.PlaceID
	Handle        = types.Handle
	Member        = types.Member
	OwnerChange   = types.OwnerChange
	PartyType     = types.PartyType
	PartyState    = types.PartyState
	PresenceEvent = types.PresenceEvent
	Reservation   = types.Reservation
)

// Re-export interfaces from the types subpackage for convenience.
type (
	Directory         = types.Directory
	Relocator         = types.Relocator
	SuccessorStrategy = types.SuccessorStrategy
	MetricsCollector  = types.MetricsCollector
	Logger            = types.Logger
	Hooks             = types.Hooks
)

// Re-export PartyType constants from the types subpackage.
const (
	TypePublic  = types.TypePublic
	TypeFriends = types.TypeFriends
	TypePrivate = types.TypePrivate
)

// Re-export PartyState constants from the types subpackage.
const (
	StateActive     = types.StateActive
	StateRelocating = types.StateRelocating
	StateRelocated  = types.StateRelocated
	StateDestroyed  = types.StateDestroyed
)

// NewMember wraps a live handle in a resolved Member.
func NewMember(h Handle) Member {
	return types.NewMember(h)
}
