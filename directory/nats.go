package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/denispionicul/party/internal/kvutil"
	"github.com/denispionicul/party/internal/logging"
	"github.com/denispionicul/party/types"
)

// FriendSource answers friend-relation queries for the NATS directory,
// which has presence information but no relationship data of its own.
type FriendSource interface {
	Friends(ctx context.Context, a, b types.UserID) (bool, error)
}

// FriendFunc adapts a function to the FriendSource interface.
type FriendFunc func(ctx context.Context, a, b types.UserID) (bool, error)

// Friends calls the wrapped function.
func (f FriendFunc) Friends(ctx context.Context, a, b types.UserID) (bool, error) {
	return f(ctx, a, b)
}

// presenceRecord is the JSON value stored per connected participant.
type presenceRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// remoteHandle is a Handle reconstructed from a presence record.
type remoteHandle struct {
	id   types.UserID
	name string
}

func (h remoteHandle) UserID() types.UserID { return h.id }
func (h remoteHandle) Name() string         { return h.name }

// NATS is a presence directory backed by a TTL'd JetStream KV bucket.
//
// Each process announces its connected participants as KV entries; the
// bucket TTL reaps entries from processes that die without retracting. A
// background watcher mirrors the bucket into an in-memory presence view and
// feeds Watch subscribers, so Resolve and Connected never touch the wire.
//
// Friend-relation queries are delegated to a FriendSource since presence
// data carries no relationship information.
type NATS struct {
	kv      jetstream.KeyValue
	ttl     time.Duration
	friends FriendSource
	logger  types.Logger
	hub     *watchHub

	lifecycleCtx    context.Context
	lifecycleCancel context.CancelFunc
	watcherDone     chan struct{}

	mu       sync.RWMutex
	present  map[types.UserID]types.Handle
	order    []types.UserID
	renewals map[types.UserID]context.CancelFunc
}

// Compile-time assertion that NATS implements Directory.
var _ types.Directory = (*NATS)(nil)

// OpenNATS creates (or opens) the presence bucket and starts the watcher.
//
// Parameters:
//   - ctx: Context for bucket creation and watcher startup
//   - js: JetStream context
//   - bucket: Presence bucket name
//   - ttl: Entry TTL; announcements are renewed at a third of this interval
//   - friends: Relationship lookup, or nil if friend queries always fail closed
//
// Returns:
//   - *NATS: The directory; callers must Close it to release the watcher
//   - error: Bucket creation or watch failure
func OpenNATS(ctx context.Context, js jetstream.JetStream, bucket string, ttl time.Duration, friends FriendSource) (*NATS, error) {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "party participant presence",
		TTL:         ttl,
		History:     1,
	}, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to open presence bucket: %w", err)
	}

	lifecycleCtx, cancel := context.WithCancel(context.Background())
	d := &NATS{
		kv:              kv,
		ttl:             ttl,
		friends:         friends,
		logger:          logging.NewNop(),
		hub:             newWatchHub(),
		lifecycleCtx:    lifecycleCtx,
		lifecycleCancel: cancel,
		watcherDone:     make(chan struct{}),
		present:         make(map[types.UserID]types.Handle),
		renewals:        make(map[types.UserID]context.CancelFunc),
	}

	watcher, err := kv.WatchAll(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch presence bucket: %w", err)
	}

	go d.run(watcher)

	return d, nil
}

// SetLogger replaces the directory's logger.
func (d *NATS) SetLogger(logger types.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Announce publishes a participant's presence and keeps it renewed until
// Retract or Close.
func (d *NATS) Announce(ctx context.Context, h types.Handle) error {
	if h == nil {
		return errors.New("nil handle")
	}

	if err := d.put(ctx, h); err != nil {
		return err
	}

	renewCtx, cancel := context.WithCancel(d.lifecycleCtx)

	d.mu.Lock()
	if prev, ok := d.renewals[h.UserID()]; ok {
		prev()
	}
	d.renewals[h.UserID()] = cancel
	d.mu.Unlock()

	go d.renew(renewCtx, h)

	return nil
}

// Retract removes a participant's presence entry and stops its renewal.
func (d *NATS) Retract(ctx context.Context, id types.UserID) error {
	d.mu.Lock()
	if cancel, ok := d.renewals[id]; ok {
		cancel()
		delete(d.renewals, id)
	}
	d.mu.Unlock()

	err := d.kv.Delete(ctx, presenceKey(id))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to retract presence for %d: %w", id, err)
	}

	return nil
}

// Resolve returns the live handle for a participant present in the fleet.
func (d *NATS) Resolve(id types.UserID) (types.Handle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.present[id]

	return h, ok
}

// Friends delegates to the configured FriendSource. Without one, every
// query reports no relation.
func (d *NATS) Friends(ctx context.Context, a, b types.UserID) (bool, error) {
	if d.friends == nil {
		return false, nil
	}

	return d.friends.Friends(ctx, a, b)
}

// Connected returns all participants currently present, in announce order.
func (d *NATS) Connected() []types.Handle {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handles := make([]types.Handle, 0, len(d.order))
	for _, id := range d.order {
		handles = append(handles, d.present[id])
	}

	return handles
}

// Watch subscribes to presence events.
func (d *NATS) Watch(ctx context.Context) (<-chan types.PresenceEvent, func(), error) {
	ch, cancel := d.hub.subscribe(ctx)

	return ch, cancel, nil
}

// Close stops renewals and the bucket watcher and closes all Watch
// subscriptions. Presence entries are left to expire via the bucket TTL.
func (d *NATS) Close() {
	d.lifecycleCancel()
	<-d.watcherDone
	d.hub.close()
}

func (d *NATS) put(ctx context.Context, h types.Handle) error {
	data, err := json.Marshal(presenceRecord{ID: int64(h.UserID()), Name: h.Name()})
	if err != nil {
		return fmt.Errorf("failed to encode presence record: %w", err)
	}

	if _, err := d.kv.Put(ctx, presenceKey(h.UserID()), data); err != nil {
		return fmt.Errorf("failed to announce presence for %d: %w", h.UserID(), err)
	}

	return nil
}

// renew re-publishes the presence entry ahead of the bucket TTL.
func (d *NATS) renew(ctx context.Context, h types.Handle) {
	interval := d.ttl / 3
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.put(ctx, h); err != nil && ctx.Err() == nil {
				d.logger.Warn("presence renewal failed", "user_id", h.UserID(), "error", err)
			}
		}
	}
}

// run mirrors the presence bucket into the in-memory view and broadcasts
// connect/disconnect events.
func (d *NATS) run(watcher jetstream.KeyWatcher) {
	defer close(d.watcherDone)
	defer func() {
		if err := watcher.Stop(); err != nil {
			d.logger.Debug("presence watcher stop failed", "error", err)
		}
	}()

	for {
		select {
		case <-d.lifecycleCtx.Done():
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				return
			}
			if entry == nil {
				// End of initial replay marker.
				continue
			}
			d.apply(entry)
		}
	}
}

func (d *NATS) apply(entry jetstream.KeyValueEntry) {
	id, err := parsePresenceKey(entry.Key())
	if err != nil {
		d.logger.Warn("ignoring malformed presence key", "key", entry.Key(), "error", err)
		return
	}

	switch entry.Operation() {
	case jetstream.KeyValuePut:
		var rec presenceRecord
		if err := json.Unmarshal(entry.Value(), &rec); err != nil {
			d.logger.Warn("ignoring malformed presence record", "key", entry.Key(), "error", err)
			return
		}

		h := remoteHandle{id: types.UserID(rec.ID), name: rec.Name}

		d.mu.Lock()
		_, already := d.present[id]
		d.present[id] = h
		if !already {
			d.order = append(d.order, id)
		}
		d.mu.Unlock()

		// Renewal puts re-write the same key; only the first is a connect.
		if !already {
			d.hub.broadcast(types.PresenceEvent{Kind: types.PresenceConnect, ID: id, Handle: h})
		}

	case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
		d.mu.Lock()
		h, ok := d.present[id]
		if ok {
			delete(d.present, id)
			for i, oid := range d.order {
				if oid == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
		}
		d.mu.Unlock()

		if ok {
			d.hub.broadcast(types.PresenceEvent{Kind: types.PresenceDisconnect, ID: id, Handle: h})
		}
	}
}

func presenceKey(id types.UserID) string {
	return strconv.FormatInt(int64(id), 10)
}

func parsePresenceKey(key string) (types.UserID, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid presence key %q: %w", key, err)
	}

	return types.UserID(id), nil
}
