package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/denispionicul/party/types"
)

// fakeDirectory answers friend queries from a fixed relation set.
type fakeDirectory struct {
	friends map[[2]types.UserID]bool
	err     error
}

func (d *fakeDirectory) Resolve(types.UserID) (types.Handle, bool) { return nil, false }

func (d *fakeDirectory) Friends(_ context.Context, a, b types.UserID) (bool, error) {
	if d.err != nil {
		return false, d.err
	}

	return d.friends[[2]types.UserID{a, b}] || d.friends[[2]types.UserID{b, a}], nil
}

func (d *fakeDirectory) Connected() []types.Handle { return nil }

func (d *fakeDirectory) Watch(context.Context) (<-chan types.PresenceEvent, func(), error) {
	return nil, nil, errors.New("not supported")
}

func TestStandard_PublicAdmitsEveryone(t *testing.T) {
	eval := NewStandard(&fakeDirectory{})

	dec, err := eval.Admit(t.Context(), Request{Type: types.TypePublic, OwnerID: 1, Candidate: 2})

	require.NoError(t, err)
	require.True(t, dec.Admitted)
	require.Equal(t, ReasonPublic, dec.Reason)
}

func TestStandard_FriendsRequiresRelationWithOwner(t *testing.T) {
	dir := &fakeDirectory{friends: map[[2]types.UserID]bool{{1, 2}: true}}
	eval := NewStandard(dir)

	t.Run("friend admitted", func(t *testing.T) {
		dec, err := eval.Admit(t.Context(), Request{Type: types.TypeFriends, OwnerID: 1, Candidate: 2})

		require.NoError(t, err)
		require.True(t, dec.Admitted)
		require.Equal(t, ReasonFriend, dec.Reason)
	})

	t.Run("stranger rejected", func(t *testing.T) {
		dec, err := eval.Admit(t.Context(), Request{Type: types.TypeFriends, OwnerID: 1, Candidate: 3})

		require.NoError(t, err)
		require.False(t, dec.Admitted)
		require.Equal(t, ReasonNotFriend, dec.Reason)
	})

	t.Run("lookup failure is an error", func(t *testing.T) {
		failing := NewStandard(&fakeDirectory{err: errors.New("directory down")})

		dec, err := failing.Admit(t.Context(), Request{Type: types.TypeFriends, OwnerID: 1, Candidate: 2})

		require.Error(t, err)
		require.False(t, dec.Admitted)
	})
}

func TestStandard_PrivateComparesSecrets(t *testing.T) {
	eval := NewStandard(&fakeDirectory{})

	dec, err := eval.Admit(t.Context(), Request{Type: types.TypePrivate, Secret: "hunter2", PartySecret: "hunter2"})
	require.NoError(t, err)
	require.True(t, dec.Admitted)
	require.Equal(t, ReasonSecretMatch, dec.Reason)

	dec, err = eval.Admit(t.Context(), Request{Type: types.TypePrivate, Secret: "wrong", PartySecret: "hunter2"})
	require.NoError(t, err)
	require.False(t, dec.Admitted)
	require.Equal(t, ReasonSecretMismatch, dec.Reason)
}

func TestStandard_UnknownTypeIsError(t *testing.T) {
	eval := NewStandard(&fakeDirectory{})

	dec, err := eval.Admit(t.Context(), Request{Type: types.PartyType(42)})

	require.Error(t, err)
	require.False(t, dec.Admitted)
	require.Equal(t, ReasonUnknownType, dec.Reason)
}
