package party_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/denispionicul/party"
	"github.com/denispionicul/party/strategy"
	"github.com/denispionicul/party/types"
)

func TestAddMemberAdmitsUpToCapacity(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")
	carol := env.connectUser(3, "carol")

	p := env.createParty(t, owner, party.CreateOptions{MaxCapacity: 2})

	admitted, err := p.AddMember(t.Context(), bob, "")
	require.NoError(t, err)
	require.True(t, admitted)

	// Roster full: owner + bob.
	admitted, err = p.AddMember(t.Context(), carol, "")
	require.NoError(t, err)
	require.False(t, admitted)

	members := p.Members()
	require.Len(t, members, 2)
	require.Equal(t, types.UserID(1), members[0].ID)
	require.Equal(t, types.UserID(2), members[1].ID)
}

func TestAddMemberRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	p := env.createParty(t, owner, party.CreateOptions{})

	admitted, err := p.AddMember(t.Context(), bob, "")
	require.NoError(t, err)
	require.True(t, admitted)

	admitted, err = p.AddMember(t.Context(), bob, "")
	require.NoError(t, err)
	require.False(t, admitted)
	require.Equal(t, 2, p.Size())
}

func TestAddMemberRejectsNilHandle(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	p := env.createParty(t, owner, party.CreateOptions{})

	_, err := p.AddMember(t.Context(), nil, "")
	require.ErrorIs(t, err, party.ErrInvalidHandle)
}

func TestAddMemberRejectsMemberOfOtherParty(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	p1 := env.createParty(t, alice, party.CreateOptions{})
	p2 := env.createParty(t, bob, party.CreateOptions{})

	// Alice owns p1, so p2 turns her away.
	admitted, err := p2.AddMember(t.Context(), alice, "")
	require.NoError(t, err)
	require.False(t, admitted)

	// Her own party treats a re-join as a duplicate, not a cross-party hit.
	admitted, err = p1.AddMember(t.Context(), alice, "")
	require.NoError(t, err)
	require.False(t, admitted)
}

func TestAddMemberAllowsMultiMembershipWhenConfigured(t *testing.T) {
	env := newTestEnv(t, func(c *party.Config) { c.AllowMultiMembership = true })
	alice := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	env.createParty(t, alice, party.CreateOptions{})
	p2 := env.createParty(t, bob, party.CreateOptions{})

	admitted, err := p2.AddMember(t.Context(), alice, "")
	require.NoError(t, err)
	require.True(t, admitted)
}

func TestAddMemberPrivateSecret(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	p := env.createParty(t, owner, party.CreateOptions{
		Type:   party.TypePrivate,
		Secret: "hunter2",
	})

	admitted, err := p.AddMember(t.Context(), bob, "wrong")
	require.NoError(t, err)
	require.False(t, admitted)

	admitted, err = p.AddMember(t.Context(), bob, "hunter2")
	require.NoError(t, err)
	require.True(t, admitted)
}

func TestAddMemberFriendsOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	p := env.createParty(t, owner, party.CreateOptions{Type: party.TypeFriends})

	admitted, err := p.AddMember(t.Context(), bob, "")
	require.NoError(t, err)
	require.False(t, admitted)

	env.dir.AddFriends(1, 2)

	admitted, err = p.AddMember(t.Context(), bob, "")
	require.NoError(t, err)
	require.True(t, admitted)
}

func TestAddMemberEmitsEvent(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	p := env.createParty(t, owner, party.CreateOptions{})

	var added []types.Member
	cancel := p.MemberAdded().Subscribe(func(m types.Member) {
		added = append(added, m)
	})
	defer cancel()

	_, err := p.AddMember(t.Context(), bob, "")
	require.NoError(t, err)

	require.Len(t, added, 1)
	require.Equal(t, types.UserID(2), added[0].ID)
}

func TestRemoveMemberNonMember(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	p := env.createParty(t, owner, party.CreateOptions{})

	removed, err := p.RemoveMember(bob)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestRemoveMemberPreservesOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")
	carol := env.connectUser(3, "carol")

	p := env.createParty(t, owner, party.CreateOptions{})
	for _, h := range []types.Handle{bob, carol} {
		admitted, err := p.AddMember(t.Context(), h, "")
		require.NoError(t, err)
		require.True(t, admitted)
	}

	removed, err := p.RemoveMember(bob)
	require.NoError(t, err)
	require.True(t, removed)

	members := p.Members()
	require.Len(t, members, 2)
	require.Equal(t, types.UserID(1), members[0].ID)
	require.Equal(t, types.UserID(3), members[1].ID)
}

func TestRemoveOwnerElectsSuccessor(t *testing.T) {
	env := newTestEnv(t, nil, party.WithSuccessorStrategy(strategy.NewFirstJoined()))
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")
	carol := env.connectUser(3, "carol")

	p := env.createParty(t, owner, party.CreateOptions{})
	for _, h := range []types.Handle{bob, carol} {
		admitted, err := p.AddMember(t.Context(), h, "")
		require.NoError(t, err)
		require.True(t, admitted)
	}

	var changes []types.OwnerChange
	cancel := p.OwnerChanged().Subscribe(func(c types.OwnerChange) {
		changes = append(changes, c)
	})
	defer cancel()

	removed, err := p.RemoveMember(owner)
	require.NoError(t, err)
	require.True(t, removed)

	// FirstJoined picks the earliest remaining member.
	require.Equal(t, types.UserID(2), p.OwnerID())
	require.Len(t, changes, 1)
	require.Equal(t, types.UserID(1), changes[0].Previous)
	require.Equal(t, types.UserID(2), changes[0].Current)
}

func TestRemoveLastMemberDestroysParty(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	p := env.createParty(t, owner, party.CreateOptions{})

	var destroyed []*party.Party
	cancel := env.reg.PartyDestroyed().Subscribe(func(dp *party.Party) {
		destroyed = append(destroyed, dp)
	})
	defer cancel()

	removed, err := p.RemoveMember(owner)
	require.NoError(t, err)
	require.True(t, removed)

	require.Equal(t, party.StateDestroyed, p.State())
	_, ok := env.reg.Lookup(p.ID())
	require.False(t, ok)
	require.Len(t, destroyed, 1)
	require.Same(t, p, destroyed[0])
}

func TestDestroyIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	p := env.createParty(t, owner, party.CreateOptions{})

	var destroyedCount int
	cancel := env.reg.PartyDestroyed().Subscribe(func(*party.Party) {
		destroyedCount++
	})
	defer cancel()

	require.NoError(t, p.Destroy())
	require.NoError(t, p.Destroy())

	require.Equal(t, 1, destroyedCount)
	require.Equal(t, party.StateDestroyed, p.State())
	require.Empty(t, p.Members())

	// Mutations after destruction are precondition violations.
	_, err := p.AddMember(t.Context(), owner, "")
	require.ErrorIs(t, err, party.ErrPartyDestroyed)
	_, err = p.RemoveMember(owner)
	require.ErrorIs(t, err, party.ErrPartyDestroyed)
	require.ErrorIs(t, p.SetOwner(owner), party.ErrPartyDestroyed)
}

func TestSetOwnerIsUnconditional(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	outsider := env.connectUser(9, "zoe")

	p := env.createParty(t, owner, party.CreateOptions{})

	var changes []types.OwnerChange
	cancel := p.OwnerChanged().Subscribe(func(c types.OwnerChange) {
		changes = append(changes, c)
	})
	defer cancel()

	// Ownership does not require membership.
	require.NoError(t, p.SetOwner(outsider))
	require.Equal(t, types.UserID(9), p.OwnerID())
	require.False(t, p.HasMember(9))
	require.Len(t, changes, 1)

	require.ErrorIs(t, p.SetOwner(nil), party.ErrInvalidHandle)
}

func TestPartyData(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	p := env.createParty(t, owner, party.CreateOptions{})

	require.NoError(t, p.SetData("mode", "ranked"))
	require.Equal(t, "ranked", p.Data()["mode"])

	// Data() returns a copy.
	p.Data()["mode"] = "mutated"
	require.Equal(t, "ranked", p.Data()["mode"])

	require.NoError(t, p.Destroy())
	require.ErrorIs(t, p.SetData("mode", "casual"), party.ErrPartyDestroyed)
}
