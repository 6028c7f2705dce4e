package types

// PartyState represents the party lifecycle state.
//
// States follow a defined progression during a relocation:
//
//	StateActive → StateRelocating → StateRelocated
//
// A failed transfer returns the party to StateActive. Destruction is
// possible from any live state:
//
//	StateActive/StateRelocating/StateRelocated → StateDestroyed
//
// StateDestroyed is terminal.
type PartyState int

const (
	// StateActive is the normal mutable state after creation.
	StateActive PartyState = iota

	// StateRelocating indicates a cross-server transfer is in flight.
	StateRelocating

	// StateRelocated indicates the party snapshot has been persisted for the
	// destination server; the local roster holds durable identifiers only.
	StateRelocated

	// StateDestroyed indicates the party has been removed from the registry.
	StateDestroyed
)

// String returns the string representation of the state.
func (s PartyState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateRelocating:
		return "Relocating"
	case StateRelocated:
		return "Relocated"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}
