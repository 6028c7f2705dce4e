package strategy

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/denispionicul/party/types"
)

// Rendezvous elects the member with the highest xxh3 hash of the party id
// and member id.
//
// Every process that observes the same roster elects the same successor
// without coordination, while different parties still spread elections
// across their members. Ties (which require a hash collision) fall back to
// the lower member id.
type Rendezvous struct {
	seed uint64
}

var _ types.SuccessorStrategy = (*Rendezvous)(nil)

// NewRendezvous creates a rendezvous-hash election strategy.
//
// Parameters:
//   - seed: Hash seed; all cooperating processes must use the same value
//
// Returns:
//   - *Rendezvous: Initialized strategy
func NewRendezvous(seed uint64) *Rendezvous {
	return &Rendezvous{seed: seed}
}

// Elect picks the highest-hash member.
func (r *Rendezvous) Elect(partyID string, members []types.Member) (types.Member, error) {
	if len(members) == 0 {
		return types.Member{}, ErrNoCandidates
	}

	best := members[0]
	bestScore := r.score(partyID, best.ID)

	for _, m := range members[1:] {
		score := r.score(partyID, m.ID)
		if score > bestScore || (score == bestScore && m.ID < best.ID) {
			best = m
			bestScore = score
		}
	}

	return best, nil
}

// score hashes one (party, member) pair.
func (r *Rendezvous) score(partyID string, id types.UserID) uint64 {
	return xxh3.HashStringSeed(fmt.Sprintf("%s/%d", partyID, id), r.seed)
}
