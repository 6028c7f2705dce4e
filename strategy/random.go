package strategy

import (
	"math/rand/v2"

	"github.com/denispionicul/party/types"
)

// Random elects a successor by drawing a uniformly random index over the
// remaining members.
type Random struct{}

var _ types.SuccessorStrategy = (*Random)(nil)

// NewRandom creates the default random-election strategy.
//
// Returns:
//   - *Random: Initialized strategy
//
// Example:
//
//	reg, err := party.New(cfg, conn, dir, rel, party.WithSuccessorStrategy(strategy.NewRandom()))
func NewRandom() *Random {
	return &Random{}
}

// Elect draws a uniformly random member.
func (r *Random) Elect(_ /* partyID */ string, members []types.Member) (types.Member, error) {
	if len(members) == 0 {
		return types.Member{}, ErrNoCandidates
	}

	return members[rand.IntN(len(members))], nil
}
