package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/denispionicul/party/internal/kvutil"
	"github.com/denispionicul/party/internal/logging"
	"github.com/denispionicul/party/internal/metrics"
	"github.com/denispionicul/party/types"
)

// ErrNotFound is returned by Get when no snapshot exists for the key.
var ErrNotFound = errors.New("snapshot not found")

// Store persists handoff snapshots in a JetStream KeyValue bucket.
//
// Keys are reserved-server private identifiers. The bucket's TTL bounds the
// lifetime of unconsumed snapshots; Delete is idempotent so the racy
// idle-shutdown watchers on the destination side are harmless.
type Store struct {
	kv      jetstream.KeyValue
	logger  types.Logger
	metrics types.MetricsCollector
}

// NewStore wraps an existing KV bucket.
//
// Parameters:
//   - kv: JetStream KV bucket holding snapshots
//
// Returns:
//   - *Store: Initialized store with nop logger and metrics
func NewStore(kv jetstream.KeyValue) *Store {
	return &Store{
		kv:      kv,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}
}

// Open creates or opens the snapshot bucket and wraps it in a Store.
//
// Creation is retried to tolerate races with other processes opening the
// same bucket concurrently.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - bucket: Bucket name
//   - ttl: Snapshot time-to-live (0 disables expiry)
//
// Returns:
//   - *Store: Initialized store
//   - error: Bucket creation/open failure
func Open(ctx context.Context, js jetstream.JetStream, bucket string, ttl time.Duration) (*Store, error) {
	cfg := jetstream.KeyValueConfig{
		Bucket:  bucket,
		History: 1,
	}
	if ttl > 0 {
		cfg.TTL = ttl
	}

	kv, err := kvutil.EnsureBucket(ctx, js, cfg, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot bucket %s: %w", bucket, err)
	}

	return NewStore(kv), nil
}

// SetLogger replaces the store's logger.
func (s *Store) SetLogger(logger types.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetMetrics replaces the store's metrics collector.
func (s *Store) SetMetrics(collector types.MetricsCollector) {
	if collector != nil {
		s.metrics = collector
	}
}

// Put persists a snapshot under the given reserved-server identifier.
//
// An existing entry for the same key is overwritten; the protocol assumes
// one destination consumer per key, so overwrites only occur when a server
// identifier is reused.
func (s *Store) Put(ctx context.Context, serverID string, snap *Snapshot) error {
	start := time.Now()

	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	if _, err := s.kv.Put(ctx, serverID, data); err != nil {
		s.metrics.RecordStoreOperation("put", time.Since(start).Seconds())
		return fmt.Errorf("failed to persist snapshot for %s: %w", serverID, err)
	}

	s.metrics.RecordStoreOperation("put", time.Since(start).Seconds())
	s.logger.Debug("snapshot persisted", "server_id", serverID, "party_id", snap.Party.ID, "members", len(snap.Party.MemberIDs))

	return nil
}

// Get loads the snapshot for the given reserved-server identifier.
//
// Returns:
//   - *Snapshot: Decoded snapshot
//   - error: ErrNotFound when no entry exists, otherwise load/decode failure
func (s *Store) Get(ctx context.Context, serverID string) (*Snapshot, error) {
	start := time.Now()

	entry, err := s.kv.Get(ctx, serverID)
	s.metrics.RecordStoreOperation("get", time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, serverID)
		}

		return nil, fmt.Errorf("failed to load snapshot for %s: %w", serverID, err)
	}

	return Unmarshal(entry.Value())
}

// Delete removes the snapshot for the given reserved-server identifier.
//
// Deleting a missing key is not an error, which makes the idle-shutdown
// cleanup idempotent.
func (s *Store) Delete(ctx context.Context, serverID string) error {
	start := time.Now()

	err := s.kv.Delete(ctx, serverID)
	s.metrics.RecordStoreOperation("delete", time.Since(start).Seconds())

	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete snapshot for %s: %w", serverID, err)
	}

	return nil
}
