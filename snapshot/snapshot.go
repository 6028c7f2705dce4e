package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/denispionicul/party/types"
)

// PartyRecord is the serialized, process-independent form of a party.
//
// MemberIDs preserves the roster's join order. The record deliberately
// carries no live handles; rehydration resolves the identifiers back into
// handles on the destination process.
type PartyRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	OwnerID     types.UserID    `json:"owner_id"`
	Destination types.PlaceID   `json:"destination"`
	MaxCapacity int             `json:"max_capacity"`
	Type        types.PartyType `json:"type"`
	Secret      string          `json:"secret,omitempty"`
	MemberIDs   []types.UserID  `json:"member_ids"`
	Data        map[string]any  `json:"data,omitempty"`
}

// Snapshot is what gets persisted for the destination process: the party
// record plus the access code that admits its members to the reserved
// server.
type Snapshot struct {
	AccessCode string      `json:"access_code"`
	Party      PartyRecord `json:"party"`
}

// Marshal encodes the snapshot as JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return data, nil
}

// Unmarshal decodes a snapshot from JSON.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &s, nil
}

// DurableIDs converts roster slots to their durable identifiers, preserving
// order. This is the outbound half of the handoff codec.
func DurableIDs(members []types.Member) []types.UserID {
	ids := make([]types.UserID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	return ids
}

// UnresolvedMembers converts durable identifiers back into roster slots with
// no live handle, preserving order. This is the inbound half of the codec;
// rehydration fills in the handles afterwards.
func UnresolvedMembers(ids []types.UserID) []types.Member {
	members := make([]types.Member, len(ids))
	for i, id := range ids {
		members[i] = types.UnresolvedMember(id)
	}

	return members
}
