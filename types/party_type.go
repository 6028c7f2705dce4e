package types

import (
	"encoding/json"
	"fmt"
)

// PartyType is the closed set of admission policies a party can carry.
//
// The type determines how the join policy evaluates candidates:
//
//	TypePublic  → everyone is admitted
//	TypeFriends → only friends of the current owner are admitted
//	TypePrivate → only candidates presenting the party secret are admitted
type PartyType int

const (
	// TypePublic admits any candidate. This is the default for new parties.
	TypePublic PartyType = iota

	// TypeFriends admits candidates with a friend relation to the current owner.
	TypeFriends

	// TypePrivate admits candidates that present the correct party secret.
	TypePrivate
)

// String returns the string representation of the party type.
func (t PartyType) String() string {
	switch t {
	case TypePublic:
		return "public"
	case TypeFriends:
		return "friends"
	case TypePrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Valid reports whether the value is one of the defined party types.
func (t PartyType) Valid() bool {
	return t == TypePublic || t == TypeFriends || t == TypePrivate
}

// ParsePartyType converts a string produced by String back into a PartyType.
//
// Returns:
//   - PartyType: Parsed type
//   - error: Error for strings outside the closed set
func ParsePartyType(s string) (PartyType, error) {
	switch s {
	case "public":
		return TypePublic, nil
	case "friends":
		return TypeFriends, nil
	case "private":
		return TypePrivate, nil
	default:
		return TypePublic, fmt.Errorf("unknown party type %q", s)
	}
}

// MarshalJSON encodes the party type as its string form.
func (t PartyType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown party type %d", int(t))
	}

	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the string form, rejecting values outside the closed set.
func (t *PartyType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParsePartyType(s)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
