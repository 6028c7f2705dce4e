package directory

import (
	"context"
	"sync"

	"github.com/denispionicul/party/types"
)

// User is a simple Handle implementation for in-process participants.
type User struct {
	ID          types.UserID
	DisplayName string
}

// Compile-time assertion that User implements Handle.
var _ types.Handle = User{}

// UserID returns the durable identifier.
func (u User) UserID() types.UserID { return u.ID }

// Name returns the display name.
func (u User) Name() string { return u.DisplayName }

// Local is an in-memory participant directory.
//
// It tracks connected participants, maintains a symmetric friend graph, and
// notifies watchers on connect/disconnect. Local is safe for concurrent use
// and is the directory of choice for single-process deployments and tests.
type Local struct {
	mu        sync.RWMutex
	connected map[types.UserID]types.Handle
	order     []types.UserID
	friends   map[types.UserID]map[types.UserID]struct{}
	hub       *watchHub
}

// Compile-time assertion that Local implements Directory.
var _ types.Directory = (*Local)(nil)

// NewLocal creates an empty in-memory directory.
func NewLocal() *Local {
	return &Local{
		connected: make(map[types.UserID]types.Handle),
		friends:   make(map[types.UserID]map[types.UserID]struct{}),
		hub:       newWatchHub(),
	}
}

// Connect marks a participant as connected and notifies watchers.
// Reconnecting an already-connected participant updates the handle without
// emitting a second connect event.
func (d *Local) Connect(h types.Handle) {
	if h == nil {
		return
	}

	d.mu.Lock()
	_, already := d.connected[h.UserID()]
	d.connected[h.UserID()] = h
	if !already {
		d.order = append(d.order, h.UserID())
	}
	d.mu.Unlock()

	if !already {
		d.hub.broadcast(types.PresenceEvent{
			Kind:   types.PresenceConnect,
			ID:     h.UserID(),
			Handle: h,
		})
	}
}

// Disconnect removes a participant and notifies watchers. Disconnecting an
// unknown participant is a no-op.
func (d *Local) Disconnect(id types.UserID) {
	d.mu.Lock()
	h, ok := d.connected[id]
	if ok {
		delete(d.connected, id)
		for i, oid := range d.order {
			if oid == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	d.mu.Unlock()

	if ok {
		d.hub.broadcast(types.PresenceEvent{
			Kind:   types.PresenceDisconnect,
			ID:     id,
			Handle: h,
		})
	}
}

// AddFriends records a mutual friendship between two participants.
func (d *Local) AddFriends(a, b types.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.friends[a] == nil {
		d.friends[a] = make(map[types.UserID]struct{})
	}
	if d.friends[b] == nil {
		d.friends[b] = make(map[types.UserID]struct{})
	}
	d.friends[a][b] = struct{}{}
	d.friends[b][a] = struct{}{}
}

// RemoveFriends removes a friendship in both directions.
func (d *Local) RemoveFriends(a, b types.UserID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.friends[a], b)
	delete(d.friends[b], a)
}

// Resolve returns the live handle for a connected participant.
func (d *Local) Resolve(id types.UserID) (types.Handle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.connected[id]

	return h, ok
}

// Friends reports whether two participants are friends.
func (d *Local) Friends(_ context.Context, a, b types.UserID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.friends[a][b]

	return ok, nil
}

// Connected returns the currently connected participants in connect order.
func (d *Local) Connected() []types.Handle {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handles := make([]types.Handle, 0, len(d.order))
	for _, id := range d.order {
		handles = append(handles, d.connected[id])
	}

	return handles
}

// Watch subscribes to presence events. The subscription ends when ctx is
// cancelled or the returned cancel function is called.
func (d *Local) Watch(ctx context.Context) (<-chan types.PresenceEvent, func(), error) {
	ch, cancel := d.hub.subscribe(ctx)

	return ch, cancel, nil
}
