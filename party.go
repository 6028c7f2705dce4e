package party

import (
	"context"
	"sync"

	"github.com/denispionicul/party/events"
	"github.com/denispionicul/party/policy"
)

// validTransitions is the guarded lifecycle transition table. Transitions
// not listed here are logged and ignored rather than applied.
var validTransitions = map[PartyState][]PartyState{
	StateActive:     {StateRelocating, StateDestroyed},
	StateRelocating: {StateRelocated, StateActive, StateDestroyed},
	StateRelocated:  {StateDestroyed},
	StateDestroyed:  {},
}

// Destruction causes reported to metrics and the destroyed log line.
const (
	destroyReasonExplicit = "explicit"
	destroyReasonEmpty    = "empty"
)

// partyConfig carries the immutable creation parameters for newParty.
type partyConfig struct {
	id          string
	name        string
	ownerID     UserID
	destination PlaceID
	maxCapacity int
	partyType   PartyType
	secret      string
	members     []Member
}

// Party is a group of participants travelling together to a destination.
//
// All mutations go through the owning registry's authority check and the
// party's mutex, giving each party a single-writer discipline. Roster order
// is join order; the roster never contains duplicate identifiers and never
// exceeds MaxCapacity.
//
// Event streams (MemberAdded, MemberRemoved, OwnerChanged) fire
// synchronously after the mutation commits, outside the party mutex, so
// subscribers may call back into the party.
type Party struct {
	registry *Registry
	id       string

	mu          sync.Mutex
	name        string
	ownerID     UserID
	destination PlaceID
	maxCapacity int
	partyType   PartyType
	secret      string
	members     []Member
	data        map[string]any
	state       PartyState

	scope         *events.Scope
	memberAdded   *events.Stream[Member]
	memberRemoved *events.Stream[Member]
	ownerChanged  *events.Stream[OwnerChange]
}

func newParty(r *Registry, cfg partyConfig) *Party {
	p := &Party{
		registry:    r,
		id:          cfg.id,
		name:        cfg.name,
		ownerID:     cfg.ownerID,
		destination: cfg.destination,
		maxCapacity: cfg.maxCapacity,
		partyType:   cfg.partyType,
		secret:      cfg.secret,
		members:     cfg.members,
		data:        make(map[string]any),
		state:       StateActive,
	}

	p.scope = events.NewScope()
	p.memberAdded = events.NewStream[Member]()
	p.memberRemoved = events.NewStream[Member]()
	p.ownerChanged = events.NewStream[OwnerChange]()
	p.scope.Add(p.memberAdded)
	p.scope.Add(p.memberRemoved)
	p.scope.Add(p.ownerChanged)

	return p
}

// ID returns the party's opaque identifier.
func (p *Party) ID() string {
	return p.id
}

// Name returns the display name.
func (p *Party) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.name
}

// OwnerID returns the durable identifier of the current owner.
func (p *Party) OwnerID() UserID {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ownerID
}

// Destination returns the place the party travels to.
func (p *Party) Destination() PlaceID {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.destination
}

// MaxCapacity returns the roster capacity.
func (p *Party) MaxCapacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.maxCapacity
}

// Type returns the party's admission policy type.
func (p *Party) Type() PartyType {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.partyType
}

// State returns the current lifecycle state.
func (p *Party) State() PartyState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Members returns a copy of the roster in join order.
func (p *Party) Members() []Member {
	p.mu.Lock()
	defer p.mu.Unlock()

	members := make([]Member, len(p.members))
	copy(members, p.members)

	return members
}

// Size returns the current roster length.
func (p *Party) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.members)
}

// HasMember reports whether the participant is on the roster.
func (p *Party) HasMember(id UserID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.indexOfLocked(id) >= 0
}

// Data returns a copy of the party's attached data bag.
func (p *Party) Data() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := make(map[string]any, len(p.data))
	for k, v := range p.data {
		data[k] = v
	}

	return data
}

// SetData attaches a value to the party. Values travel with the party in
// handoff snapshots and must therefore be JSON-encodable.
func (p *Party) SetData(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateDestroyed {
		return ErrPartyDestroyed
	}

	p.data[key] = value

	return nil
}

// MemberAdded is the stream of admitted members.
func (p *Party) MemberAdded() *events.Stream[Member] {
	return p.memberAdded
}

// MemberRemoved is the stream of removed members.
func (p *Party) MemberRemoved() *events.Stream[Member] {
	return p.memberRemoved
}

// OwnerChanged is the stream of ownership transfers.
func (p *Party) OwnerChanged() *events.Stream[OwnerChange] {
	return p.ownerChanged
}

// AddMember admits a participant to the party.
//
// The boolean result is the admission verdict; errors are reserved for
// precondition violations (nil handle, off-authority caller, destroyed or
// relocating party). A false verdict means the candidate was turned away:
// already in another party, already on the roster, the roster is full, or
// the join policy rejected them. Rejections mutate nothing and are
// warn-logged with their reason.
//
// Parameters:
//   - ctx: Context for the policy evaluation (friend lookups may block)
//   - h: Live handle of the joining participant
//   - secret: Join secret presented by the candidate (private parties)
//
// Returns:
//   - bool: true if the participant joined
//   - error: Precondition violation
func (p *Party) AddMember(ctx context.Context, h Handle, secret string) (bool, error) {
	if h == nil {
		return false, ErrInvalidHandle
	}
	if !p.registry.cfg.Authority {
		return false, ErrNotAuthoritative
	}

	// Membership in other parties is checked against the registry index
	// before taking the party mutex; lock ordering stays party-local.
	if !p.registry.cfg.AllowMultiMembership {
		if other, ok := p.registry.findPartyOf(h.UserID()); ok && other != p {
			p.rejectAdmission(h, "other-party")

			return false, nil
		}
	}

	p.mu.Lock()

	if err := p.mutableLocked(); err != nil {
		p.mu.Unlock()

		return false, err
	}

	if p.indexOfLocked(h.UserID()) >= 0 {
		p.mu.Unlock()
		p.rejectAdmission(h, "duplicate")

		return false, nil
	}

	if len(p.members) >= p.maxCapacity {
		p.mu.Unlock()
		p.rejectAdmission(h, "capacity")

		return false, nil
	}

	req := policy.Request{
		PartyID:     p.id,
		Type:        p.partyType,
		OwnerID:     p.ownerID,
		Candidate:   h.UserID(),
		Secret:      secret,
		PartySecret: p.secret,
	}
	p.mu.Unlock()

	// Policy evaluation may hit the directory; run it unlocked.
	decision, err := p.registry.policy.Admit(ctx, req)
	if err != nil {
		p.registry.logger.Warn("admission policy evaluation failed",
			"party_id", p.id, "user_id", h.UserID(), "error", err)
		p.registry.metrics.RecordAdmission("rejected")

		return false, nil
	}
	if !decision.Admitted {
		p.rejectAdmission(h, decision.Reason)

		return false, nil
	}

	member := NewMember(h)

	p.mu.Lock()
	// Re-validate: the roster may have changed while the policy ran.
	if err := p.mutableLocked(); err != nil {
		p.mu.Unlock()

		return false, err
	}
	if p.indexOfLocked(h.UserID()) >= 0 {
		p.mu.Unlock()
		p.rejectAdmission(h, "duplicate")

		return false, nil
	}
	if len(p.members) >= p.maxCapacity {
		p.mu.Unlock()
		p.rejectAdmission(h, "capacity")

		return false, nil
	}
	p.members = append(p.members, member)
	p.mu.Unlock()

	p.registry.logger.Info("member joined party",
		"party_id", p.id, "user_id", h.UserID(), "reason", decision.Reason)
	p.registry.metrics.RecordAdmission("admitted")
	p.registry.metrics.RecordMemberChange(1, 0)
	p.memberAdded.Emit(member)

	return true, nil
}

// RemoveMember takes a participant off the roster.
//
// Returns false when the participant was not a member. Removing the last
// member destroys the party; removing the owner elects a successor with the
// registry's successor strategy.
//
// Parameters:
//   - h: Handle of the leaving participant
//
// Returns:
//   - bool: true if the participant was removed
//   - error: Precondition violation
func (p *Party) RemoveMember(h Handle) (bool, error) {
	if h == nil {
		return false, ErrInvalidHandle
	}
	if !p.registry.cfg.Authority {
		return false, ErrNotAuthoritative
	}

	p.mu.Lock()

	if err := p.mutableLocked(); err != nil {
		p.mu.Unlock()

		return false, err
	}

	idx := p.indexOfLocked(h.UserID())
	if idx < 0 {
		p.mu.Unlock()

		return false, nil
	}

	removed := p.members[idx]
	p.members = append(p.members[:idx], p.members[idx+1:]...)

	empty := len(p.members) == 0
	wasOwner := p.ownerID == removed.ID

	var ownerEvent *OwnerChange
	if !empty && wasOwner {
		successor, err := p.registry.successor.Elect(p.id, p.members)
		if err != nil {
			// Strategies only fail on empty rosters, which the branch
			// excludes; log and keep the stale owner id.
			p.registry.logger.Warn("owner succession failed",
				"party_id", p.id, "error", err)
		} else {
			ownerEvent = &OwnerChange{Previous: p.ownerID, Current: successor.ID}
			p.ownerID = successor.ID
		}
	}
	p.mu.Unlock()

	p.registry.logger.Info("member left party", "party_id", p.id, "user_id", removed.ID)
	p.registry.metrics.RecordMemberChange(0, 1)
	p.memberRemoved.Emit(removed)

	if ownerEvent != nil {
		p.registry.metrics.RecordOwnerChange(p.id)
		p.registry.logger.Info("party owner succeeded",
			"party_id", p.id, "previous", ownerEvent.Previous, "current", ownerEvent.Current)
		p.ownerChanged.Emit(*ownerEvent)
	}

	if empty {
		p.destroy(destroyReasonEmpty)
	}

	return true, nil
}

// SetOwner transfers ownership to the given participant.
//
// Ownership is set unconditionally; the new owner is not required to be a
// roster member. Emits an owner-changed event.
//
// Parameters:
//   - h: Handle of the new owner
//
// Returns:
//   - error: Precondition violation
func (p *Party) SetOwner(h Handle) error {
	if h == nil {
		return ErrInvalidHandle
	}
	if !p.registry.cfg.Authority {
		return ErrNotAuthoritative
	}

	p.mu.Lock()

	if err := p.mutableLocked(); err != nil {
		p.mu.Unlock()

		return err
	}

	event := OwnerChange{Previous: p.ownerID, Current: h.UserID()}
	p.ownerID = h.UserID()
	p.mu.Unlock()

	p.registry.metrics.RecordOwnerChange(p.id)
	p.registry.logger.Info("party owner changed",
		"party_id", p.id, "previous", event.Previous, "current", event.Current)
	p.ownerChanged.Emit(event)

	return nil
}

// Destroy removes the party from the registry and releases its resources.
//
// The roster and data bag are cleared, the lifecycle state becomes
// Destroyed and the party-destroyed event fires exactly once. Calling
// Destroy on an already-destroyed party returns nil without re-emitting.
//
// Returns:
//   - error: ErrNotAuthoritative when called off-authority
func (p *Party) Destroy() error {
	if !p.registry.cfg.Authority {
		return ErrNotAuthoritative
	}

	p.destroy(destroyReasonExplicit)

	return nil
}

// destroy performs the destruction. The "empty" cause re-checks the roster
// so a join racing with the last leave keeps the party alive.
func (p *Party) destroy(reason string) {
	p.mu.Lock()

	if p.state == StateDestroyed {
		p.mu.Unlock()

		return
	}
	if reason == destroyReasonEmpty && len(p.members) > 0 {
		p.mu.Unlock()

		return
	}

	p.transitionLocked(StateDestroyed)
	p.members = nil
	p.data = nil
	p.mu.Unlock()

	p.registry.removeParty(p)

	p.registry.logger.Info("party destroyed", "party_id", p.id, "reason", reason)
	p.registry.metrics.RecordPartyDestroyed(reason)
	p.registry.partyDestroyed.Emit(p)
	p.registry.invokeHook("OnPartyDestroyed", func(ctx context.Context) error {
		return p.registry.hooks.OnPartyDestroyed(ctx, p.id)
	})

	p.scope.Close()
}

// mutableLocked guards roster and ownership mutations. Callers must hold
// p.mu.
func (p *Party) mutableLocked() error {
	switch p.state {
	case StateDestroyed:
		return ErrPartyDestroyed
	case StateRelocating, StateRelocated:
		return ErrRelocationInProgress
	default:
		return nil
	}
}

// indexOfLocked returns the roster index of the participant, or -1. Callers
// must hold p.mu.
func (p *Party) indexOfLocked(id UserID) int {
	for i, m := range p.members {
		if m.ID == id {
			return i
		}
	}

	return -1
}

// transitionLocked applies a lifecycle transition if the table allows it.
// Invalid transitions are logged and ignored. Callers must hold p.mu.
func (p *Party) transitionLocked(to PartyState) bool {
	from := p.state

	allowed := false
	for _, next := range validTransitions[from] {
		if next == to {
			allowed = true
			break
		}
	}

	if !allowed {
		p.registry.logger.Warn("ignoring invalid party state transition",
			"party_id", p.id, "from", from.String(), "to", to.String())

		return false
	}

	p.state = to

	p.registry.logger.Debug("party state transition",
		"party_id", p.id, "from", from.String(), "to", to.String())
	p.registry.metrics.RecordStateTransition(from, to)
	p.registry.invokeHook("OnStateChanged", func(ctx context.Context) error {
		return p.registry.hooks.OnStateChanged(ctx, p.id, from, to)
	})

	return true
}

func (p *Party) rejectAdmission(h Handle, reason string) {
	p.registry.logger.Warn("party admission rejected",
		"party_id", p.id, "user_id", h.UserID(), "reason", reason)
	p.registry.metrics.RecordAdmission(reason)
}
