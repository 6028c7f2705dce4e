package party_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/denispionicul/party"
	"github.com/denispionicul/party/directory"
	partytest "github.com/denispionicul/party/testing"
	"github.com/denispionicul/party/types"
)

// fakeRelocator records reservation requests and answers with a canned
// reservation or error.
type fakeRelocator struct {
	mu          sync.Mutex
	requests    []relocationRequest
	reservation types.Reservation
	err         error
}

type relocationRequest struct {
	destination   types.PlaceID
	members       []types.UserID
	reserveServer bool
}

func (f *fakeRelocator) Request(_ context.Context, destination types.PlaceID, members []types.UserID, reserveServer bool) (types.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]types.UserID, len(members))
	copy(ids, members)
	f.requests = append(f.requests, relocationRequest{
		destination:   destination,
		members:       ids,
		reserveServer: reserveServer,
	})

	if f.err != nil {
		return types.Reservation{}, f.err
	}

	return f.reservation, nil
}

func (f *fakeRelocator) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.requests)
}

type testEnv struct {
	conn *nats.Conn
	reg  *party.Registry
	dir  *directory.Local
	rel  *fakeRelocator
}

// newTestEnv starts an embedded NATS server and a started registry wired to
// a Local directory and a fake relocator.
func newTestEnv(t *testing.T, mutate func(*party.Config), opts ...party.Option) *testEnv {
	t.Helper()

	_, nc := partytest.StartEmbeddedNATS(t)

	return newTestEnvOn(t, nc, mutate, opts...)
}

// newTestEnvOn builds a registry on an existing connection, so tests can run
// several registries against one embedded server.
func newTestEnvOn(t *testing.T, nc *nats.Conn, mutate func(*party.Config), opts ...party.Option) *testEnv {
	t.Helper()

	cfg := party.TestConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	dir := directory.NewLocal()
	rel := &fakeRelocator{
		reservation: types.Reservation{AccessCode: "access-1", ServerID: "server-1"},
	}

	reg, err := party.New(&cfg, nc, dir, rel, opts...)
	require.NoError(t, err)
	require.NoError(t, reg.Start(t.Context()))
	t.Cleanup(func() {
		_ = reg.Stop(context.Background())
	})

	return &testEnv{conn: nc, reg: reg, dir: dir, rel: rel}
}

// connectUser registers a user with the directory and returns its handle.
func (e *testEnv) connectUser(id types.UserID, name string) directory.User {
	u := directory.User{ID: id, DisplayName: name}
	e.dir.Connect(u)

	return u
}

// createParty creates a party owned by the given user.
func (e *testEnv) createParty(t *testing.T, owner types.Handle, opts party.CreateOptions) *party.Party {
	t.Helper()

	p, err := e.reg.Create(t.Context(), owner, "place-1", opts)
	require.NoError(t, err)

	return p
}

// waitFor asserts that the condition becomes true within two seconds.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond, msg)
}
