package types

// SuccessorStrategy elects a new owner when the current owner leaves a party
// that still has members.
//
// The default strategy draws a uniformly random member; deterministic
// strategies exist for tests and for processes that must agree on the
// successor without coordination.
type SuccessorStrategy interface {
	// Elect picks the next owner from the remaining members.
	//
	// The slice is non-empty, preserves join order, and must not be mutated.
	//
	// Parameters:
	//   - partyID: Identifier of the party electing a successor
	//   - members: Remaining roster after the owner's departure
	//
	// Returns:
	//   - Member: The elected member
	//   - error: Election failure (e.g., empty candidate list)
	Elect(partyID string, members []Member) (Member, error)
}
