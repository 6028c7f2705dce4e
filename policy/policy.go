package policy

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/denispionicul/party/types"
)

// Admission decision reasons reported in Decision.Reason and in admission
// metrics/log lines.
const (
	ReasonPublic         = "public"
	ReasonFriend         = "friend"
	ReasonNotFriend      = "not-friend"
	ReasonSecretMatch    = "secret-match"
	ReasonSecretMismatch = "secret-mismatch"
	ReasonUnknownType    = "unknown-type"
)

// Request carries everything the evaluator needs for one admission decision.
type Request struct {
	// PartyID identifies the party being joined.
	PartyID string

	// Type is the party's admission policy.
	Type types.PartyType

	// OwnerID is the durable identifier of the current owner.
	OwnerID types.UserID

	// Candidate is the durable identifier of the joining participant.
	Candidate types.UserID

	// Secret is the secret presented by the candidate, if any.
	Secret string

	// PartySecret is the party's configured secret (private parties only).
	PartySecret string
}

// Decision is the evaluator's verdict.
type Decision struct {
	// Admitted reports whether the candidate may join.
	Admitted bool

	// Reason explains the verdict for logging and metrics.
	Reason string
}

// Evaluator decides whether a candidate may join a party.
//
// Implementations must be safe for concurrent use.
type Evaluator interface {
	// Admit evaluates one admission request.
	//
	// Returns:
	//   - Decision: The verdict with its reason
	//   - error: Evaluator failure (treated as a rejection by callers)
	Admit(ctx context.Context, req Request) (Decision, error)
}

// Standard is the default evaluator implementing the public/friends/private
// rules. Friend relations are answered by the participant directory.
type Standard struct {
	dir types.Directory
}

var _ Evaluator = (*Standard)(nil)

// NewStandard creates the default evaluator.
//
// Parameters:
//   - dir: Participant directory used for friend-relation queries
//
// Returns:
//   - *Standard: Initialized evaluator
func NewStandard(dir types.Directory) *Standard {
	return &Standard{dir: dir}
}

// Admit evaluates the request against the party type, matching each member
// of the closed type set exhaustively.
func (s *Standard) Admit(ctx context.Context, req Request) (Decision, error) {
	switch req.Type {
	case types.TypePublic:
		return Decision{Admitted: true, Reason: ReasonPublic}, nil

	case types.TypeFriends:
		ok, err := s.dir.Friends(ctx, req.OwnerID, req.Candidate)
		if err != nil {
			return Decision{Reason: ReasonNotFriend}, fmt.Errorf("friend lookup failed: %w", err)
		}
		if !ok {
			return Decision{Reason: ReasonNotFriend}, nil
		}

		return Decision{Admitted: true, Reason: ReasonFriend}, nil

	case types.TypePrivate:
		if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(req.PartySecret)) != 1 {
			return Decision{Reason: ReasonSecretMismatch}, nil
		}

		return Decision{Admitted: true, Reason: ReasonSecretMatch}, nil

	default:
		return Decision{Reason: ReasonUnknownType}, fmt.Errorf("unknown party type %d", int(req.Type))
	}
}
