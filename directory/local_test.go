package directory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/denispionicul/party/directory"
	"github.com/denispionicul/party/types"
)

func TestLocal_ResolveAndConnected(t *testing.T) {
	dir := directory.NewLocal()

	dir.Connect(directory.User{ID: 1, DisplayName: "alice"})
	dir.Connect(directory.User{ID: 2, DisplayName: "bob"})

	h, ok := dir.Resolve(1)
	require.True(t, ok)
	require.Equal(t, "alice", h.Name())

	_, ok = dir.Resolve(99)
	require.False(t, ok)

	connected := dir.Connected()
	require.Len(t, connected, 2)
	require.Equal(t, types.UserID(1), connected[0].UserID())
	require.Equal(t, types.UserID(2), connected[1].UserID())

	dir.Disconnect(1)
	_, ok = dir.Resolve(1)
	require.False(t, ok)
	require.Len(t, dir.Connected(), 1)
}

func TestLocal_ReconnectUpdatesHandleWithoutDuplicate(t *testing.T) {
	dir := directory.NewLocal()

	dir.Connect(directory.User{ID: 1, DisplayName: "alice"})
	dir.Connect(directory.User{ID: 1, DisplayName: "alice-renamed"})

	require.Len(t, dir.Connected(), 1)

	h, ok := dir.Resolve(1)
	require.True(t, ok)
	require.Equal(t, "alice-renamed", h.Name())
}

func TestLocal_Friends(t *testing.T) {
	dir := directory.NewLocal()
	dir.AddFriends(1, 2)

	ok, err := dir.Friends(t.Context(), 1, 2)
	require.NoError(t, err)
	require.True(t, ok)

	// Symmetric.
	ok, err = dir.Friends(t.Context(), 2, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = dir.Friends(t.Context(), 1, 3)
	require.NoError(t, err)
	require.False(t, ok)

	dir.RemoveFriends(1, 2)
	ok, err = dir.Friends(t.Context(), 1, 2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocal_WatchDeliversEvents(t *testing.T) {
	dir := directory.NewLocal()

	events, cancel, err := dir.Watch(t.Context())
	require.NoError(t, err)
	defer cancel()

	dir.Connect(directory.User{ID: 7, DisplayName: "carol"})
	dir.Disconnect(7)

	ev := receiveEvent(t, events)
	require.Equal(t, types.PresenceConnect, ev.Kind)
	require.Equal(t, types.UserID(7), ev.ID)
	require.Equal(t, "carol", ev.Handle.Name())

	ev = receiveEvent(t, events)
	require.Equal(t, types.PresenceDisconnect, ev.Kind)
	require.Equal(t, types.UserID(7), ev.ID)
}

func TestLocal_WatchCancelClosesChannel(t *testing.T) {
	dir := directory.NewLocal()

	events, cancel, err := dir.Watch(t.Context())
	require.NoError(t, err)

	cancel()
	cancel() // idempotent

	select {
	case _, open := <-events:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed after cancel")
	}

	// Events after cancellation go nowhere without panicking.
	dir.Connect(directory.User{ID: 1, DisplayName: "alice"})
}

func receiveEvent(t *testing.T, events <-chan types.PresenceEvent) types.PresenceEvent {
	t.Helper()

	select {
	case ev, open := <-events:
		require.True(t, open, "watch channel closed unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for presence event")
		return types.PresenceEvent{}
	}
}
