package strategy

import "github.com/denispionicul/party/types"

// FirstJoined elects the longest-standing remaining member.
//
// Because the roster preserves join order, this is simply the first slot.
// The strategy is fully deterministic, which makes it the natural choice
// for tests.
type FirstJoined struct{}

var _ types.SuccessorStrategy = (*FirstJoined)(nil)

// NewFirstJoined creates the first-joined strategy.
func NewFirstJoined() *FirstJoined {
	return &FirstJoined{}
}

// Elect returns the first remaining member.
func (f *FirstJoined) Elect(_ /* partyID */ string, members []types.Member) (types.Member, error) {
	if len(members) == 0 {
		return types.Member{}, ErrNoCandidates
	}

	return members[0], nil
}
