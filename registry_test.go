package party_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/denispionicul/party"
	"github.com/denispionicul/party/directory"
	partytest "github.com/denispionicul/party/testing"
	"github.com/denispionicul/party/types"
)

func TestNewValidatesDependencies(t *testing.T) {
	_, nc := partytest.StartEmbeddedNATS(t)
	cfg := party.TestConfig()
	dir := directory.NewLocal()
	rel := &fakeRelocator{}

	_, err := party.New(nil, nc, dir, rel)
	require.ErrorIs(t, err, party.ErrInvalidConfig)

	_, err = party.New(&cfg, nil, dir, rel)
	require.ErrorIs(t, err, party.ErrNATSConnectionRequired)

	_, err = party.New(&cfg, nc, nil, rel)
	require.ErrorIs(t, err, party.ErrDirectoryRequired)

	_, err = party.New(&cfg, nc, dir, nil)
	require.ErrorIs(t, err, party.ErrRelocatorRequired)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, nc := partytest.StartEmbeddedNATS(t)
	cfg := party.TestConfig()
	cfg.DefaultMaxCapacity = -1

	_, err := party.New(&cfg, nc, directory.NewLocal(), &fakeRelocator{})
	require.ErrorIs(t, err, party.ErrInvalidConfig)
}

func TestStartTwiceFails(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.reg.Start(t.Context())
	require.ErrorIs(t, err, party.ErrAlreadyStarted)
}

func TestStopBeforeStartFails(t *testing.T) {
	_, nc := partytest.StartEmbeddedNATS(t)
	cfg := party.TestConfig()

	reg, err := party.New(&cfg, nc, directory.NewLocal(), &fakeRelocator{})
	require.NoError(t, err)

	require.ErrorIs(t, reg.Stop(context.Background()), party.ErrNotStarted)
}

func TestCreateBeforeStartFails(t *testing.T) {
	_, nc := partytest.StartEmbeddedNATS(t)
	cfg := party.TestConfig()

	reg, err := party.New(&cfg, nc, directory.NewLocal(), &fakeRelocator{})
	require.NoError(t, err)

	owner := directory.User{ID: 1, DisplayName: "alice"}
	_, err = reg.Create(t.Context(), owner, "place-1", party.CreateOptions{})
	require.ErrorIs(t, err, party.ErrNotStarted)
}

func TestCreateRequiresAuthority(t *testing.T) {
	env := newTestEnv(t, func(c *party.Config) { c.Authority = false })
	owner := env.connectUser(1, "alice")

	_, err := env.reg.Create(t.Context(), owner, "place-1", party.CreateOptions{})
	require.ErrorIs(t, err, party.ErrNotAuthoritative)
}

func TestCreateValidatesArguments(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")

	_, err := env.reg.Create(t.Context(), nil, "place-1", party.CreateOptions{})
	require.ErrorIs(t, err, party.ErrInvalidOwner)

	_, err = env.reg.Create(t.Context(), owner, "", party.CreateOptions{})
	require.ErrorIs(t, err, party.ErrInvalidDestination)

	_, err = env.reg.Create(t.Context(), owner, "place-1", party.CreateOptions{Type: party.PartyType(42)})
	require.ErrorIs(t, err, party.ErrInvalidConfig)
}

func TestCreateAppliesDefaults(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")

	var created []*party.Party
	cancel := env.reg.PartyCreated().Subscribe(func(p *party.Party) {
		created = append(created, p)
	})
	defer cancel()

	p := env.createParty(t, owner, party.CreateOptions{})

	require.Equal(t, "alice's party", p.Name())
	require.Equal(t, party.TypePublic, p.Type())
	require.Equal(t, party.TestConfig().DefaultMaxCapacity, p.MaxCapacity())
	require.Equal(t, types.UserID(1), p.OwnerID())
	require.Equal(t, party.StateActive, p.State())

	members := p.Members()
	require.Len(t, members, 1)
	require.Equal(t, types.UserID(1), members[0].ID)
	require.True(t, members[0].Resolved())

	require.Len(t, created, 1)
	require.Same(t, p, created[0])
}

func TestLookupAndFindByMember(t *testing.T) {
	env := newTestEnv(t, nil)
	owner := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	p := env.createParty(t, owner, party.CreateOptions{})

	found, ok := env.reg.Lookup(p.ID())
	require.True(t, ok)
	require.Same(t, p, found)

	_, ok = env.reg.Lookup("no-such-party")
	require.False(t, ok)

	found, ok = env.reg.FindByMember(owner)
	require.True(t, ok)
	require.Same(t, p, found)

	_, ok = env.reg.FindByMember(bob)
	require.False(t, ok)

	_, ok = env.reg.FindByMember(nil)
	require.False(t, ok)
}

func TestListAll(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.connectUser(1, "alice")
	bob := env.connectUser(2, "bob")

	require.Empty(t, env.reg.ListAll())

	env.createParty(t, alice, party.CreateOptions{})
	env.createParty(t, bob, party.CreateOptions{})

	require.Len(t, env.reg.ListAll(), 2)
}

func TestCurrentIsEmptyOnOrigin(t *testing.T) {
	env := newTestEnv(t, nil)

	_, ok := env.reg.Current()
	require.False(t, ok)
}

func TestCreateInvokesHook(t *testing.T) {
	hooked := make(chan string, 1)
	hooks := &party.Hooks{
		OnPartyCreated: func(_ context.Context, partyID string) error {
			hooked <- partyID

			return nil
		},
	}

	env := newTestEnv(t, nil, party.WithHooks(hooks))
	owner := env.connectUser(1, "alice")
	p := env.createParty(t, owner, party.CreateOptions{})

	waitFor(t, func() bool {
		select {
		case id := <-hooked:
			return id == p.ID()
		default:
			return false
		}
	}, "OnPartyCreated hook not invoked")
}
