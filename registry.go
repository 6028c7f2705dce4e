package party

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/denispionicul/party/events"
	"github.com/denispionicul/party/internal/hooks"
	"github.com/denispionicul/party/internal/logging"
	"github.com/denispionicul/party/internal/metrics"
	"github.com/denispionicul/party/policy"
	"github.com/denispionicul/party/snapshot"
	"github.com/denispionicul/party/strategy"
)

// MembersResolvedEvent is emitted once rehydration finishes resolving the
// roster on a reserved destination. Members holds the final roster: live
// handles for participants that connected within the resolution window,
// bare durable identifiers for the rest.
type MembersResolvedEvent struct {
	Party   *Party
	Members []Member
}

// Registry tracks the parties owned by this process and coordinates their
// lifecycle: creation, lookup, cross-server handoff and rehydration.
//
// A process typically runs exactly one Registry. Mutating operations require
// cfg.Authority; non-authoritative processes get read-only access.
type Registry struct {
	cfg     Config
	conn    *nats.Conn
	dir     Directory
	rel     Relocator
	logger  Logger
	metrics MetricsCollector
	hooks   Hooks

	successor SuccessorStrategy
	policy    policy.Evaluator

	parties *xsync.Map[string, *Party]
	current atomic.Pointer[Party]

	store *snapshot.Store

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	scope           *events.Scope
	partyCreated    *events.Stream[*Party]
	partyDestroyed  *events.Stream[*Party]
	serverStarted   *events.Stream[*Party]
	membersResolved *events.Stream[MembersResolvedEvent]
}

// CreateOptions customizes a new party. The zero value produces a public
// party with a default name and the configured default capacity.
type CreateOptions struct {
	// Name is the display name. Defaults to "<owner>'s party".
	Name string

	// MaxCapacity caps the roster size. Defaults to cfg.DefaultMaxCapacity.
	MaxCapacity int

	// Type selects the admission policy. Defaults to TypePublic.
	Type PartyType

	// Secret is the join secret for private parties.
	Secret string
}

// New creates a Registry.
//
// Parameters:
//   - cfg: Registry configuration (defaults applied, then validated)
//   - conn: NATS connection for the snapshot store
//   - dir: Participant directory (resolution, presence, friend relations)
//   - rel: Relocator answering reservation requests
//   - opts: Optional configuration (logger, metrics, hooks, strategy, policy)
//
// Returns:
//   - *Registry: Initialized registry instance
//   - error: Validation error if configuration or dependencies are invalid
//
// Example:
//
//	cfg := party.DefaultConfig()
//	dir := directory.NewLocal()
//	rel, _ := relocation.NewClient(natsConn)
//	reg, err := party.New(&cfg, natsConn, dir, rel)
func New(cfg *Config, conn *nats.Conn, dir Directory, rel Relocator, opts ...Option) (*Registry, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if conn == nil {
		return nil, ErrNATSConnectionRequired
	}
	if dir == nil {
		return nil, ErrDirectoryRequired
	}
	if rel == nil {
		return nil, ErrRelocatorRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Apply options
	options := &registryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	var hookSet Hooks
	if options.hooks != nil {
		hookSet = *options.hooks
	}
	hookSet = hooks.Normalize(hookSet)

	successor := options.successor
	if successor == nil {
		successor = strategy.NewRandom()
	}

	evaluator := options.policy
	if evaluator == nil {
		evaluator = policy.NewStandard(dir)
	}

	r := &Registry{
		cfg:       *cfg,
		conn:      conn,
		dir:       dir,
		rel:       rel,
		logger:    loggerInstance,
		metrics:   metricsCollector,
		hooks:     hookSet,
		successor: successor,
		policy:    evaluator,
		parties:   xsync.NewMap[string, *Party](),
	}

	r.scope = events.NewScope()
	r.partyCreated = events.NewStream[*Party]()
	r.partyDestroyed = events.NewStream[*Party]()
	r.serverStarted = events.NewStream[*Party]()
	r.membersResolved = events.NewStream[MembersResolvedEvent]()
	r.scope.Add(r.partyCreated)
	r.scope.Add(r.partyDestroyed)
	r.scope.Add(r.serverStarted)
	r.scope.Add(r.membersResolved)

	return r, nil
}

// Start initializes the registry.
//
// It opens the snapshot bucket and, when this process is a reserved
// destination, loads the pending handoff snapshot and rebuilds its party.
// Participant resolution then continues in the background up to
// cfg.ResolveTimeout; subscribe to MembersResolved or ServerStarted to
// observe completion. Snapshot load or decode failures are returned.
//
// Parameters:
//   - ctx: Context for startup cancellation
//
// Returns:
//   - error: Startup error, or ErrAlreadyStarted
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.ctx != nil {
		r.mu.Unlock()

		return ErrAlreadyStarted
	}

	// Registry lifecycle context outlives the startup context.
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.mu.Unlock()

	// Apply startup timeout from the provided context
	startupCtx := ctx
	if r.cfg.StartupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = context.WithTimeout(ctx, r.cfg.StartupTimeout)
		defer cancel()
	}

	js, err := jetstream.New(r.conn)
	if err != nil {
		return fmt.Errorf("failed to create jetstream context: %w", err)
	}

	store, err := snapshot.Open(startupCtx, js, r.cfg.SnapshotBucket, r.cfg.SnapshotTTL)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	store.SetLogger(r.logger)
	store.SetMetrics(r.metrics)
	r.store = store

	if r.cfg.ReservedServerID != "" && r.cfg.Authority {
		if err := r.rehydrate(startupCtx); err != nil {
			return err
		}

		// Reap the snapshot once the destination drains to zero participants.
		r.wg.Add(1)
		go r.watchIdle()
	}

	r.logger.Info("party registry started",
		"authority", r.cfg.Authority,
		"reserved_server_id", r.cfg.ReservedServerID,
		"snapshot_bucket", r.cfg.SnapshotBucket,
	)

	return nil
}

// Stop shuts the registry down.
//
// Background goroutines are cancelled and awaited up to the context deadline
// (bounded by cfg.ShutdownTimeout). On a reserved destination a final
// best-effort idle cleanup runs, mirroring process-termination semantics.
//
// Parameters:
//   - ctx: Context bounding the shutdown wait
//
// Returns:
//   - error: ErrNotStarted, or context error if goroutines did not finish
func (r *Registry) Stop(ctx context.Context) error {
	r.mu.Lock()
	if r.ctx == nil {
		r.mu.Unlock()

		return ErrNotStarted
	}
	cancel := r.cancel
	r.mu.Unlock()

	cancel()

	shutdownCtx := ctx
	if r.cfg.ShutdownTimeout > 0 {
		var cancelTimeout context.CancelFunc
		shutdownCtx, cancelTimeout = context.WithTimeout(ctx, r.cfg.ShutdownTimeout)
		defer cancelTimeout()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	var waitErr error
	select {
	case <-done:
	case <-shutdownCtx.Done():
		waitErr = fmt.Errorf("shutdown wait aborted: %w", shutdownCtx.Err())
	}

	if r.cfg.ReservedServerID != "" {
		r.cleanupIfIdle()
	}

	r.scope.Close()
	r.logger.Info("party registry stopped")

	return waitErr
}

// Create creates a party owned by the given participant and registers it.
//
// The owner becomes the first roster member. Option zero values fall back to
// a "<owner>'s party" name, cfg.DefaultMaxCapacity and TypePublic.
//
// Parameters:
//   - ctx: Context for hook invocation
//   - owner: Live handle of the creating participant
//   - destination: Place the party will travel to
//   - opts: Name, capacity, type and secret overrides
//
// Returns:
//   - *Party: The registered party
//   - error: ErrNotAuthoritative, ErrNotStarted, ErrInvalidOwner or
//     ErrInvalidDestination
func (r *Registry) Create(ctx context.Context, owner Handle, destination PlaceID, opts CreateOptions) (*Party, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.cfg.Authority {
		return nil, ErrNotAuthoritative
	}
	if !r.isStarted() {
		return nil, ErrNotStarted
	}
	if owner == nil {
		return nil, ErrInvalidOwner
	}
	if destination == "" {
		return nil, ErrInvalidDestination
	}
	if !opts.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown party type %d", ErrInvalidConfig, int(opts.Type))
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s's party", owner.Name())
	}

	capacity := opts.MaxCapacity
	if capacity <= 0 {
		capacity = r.cfg.DefaultMaxCapacity
	}

	p := newParty(r, partyConfig{
		id:          nuid.Next(),
		name:        name,
		ownerID:     owner.UserID(),
		destination: destination,
		maxCapacity: capacity,
		partyType:   opts.Type,
		secret:      opts.Secret,
		members:     []Member{NewMember(owner)},
	})

	r.parties.Store(p.id, p)

	r.logger.Info("party created",
		"party_id", p.id,
		"owner_id", owner.UserID(),
		"destination", destination,
		"type", opts.Type.String(),
		"max_capacity", capacity,
	)
	r.metrics.RecordPartyCreated(opts.Type)
	r.metrics.RecordMemberChange(1, 0)
	r.partyCreated.Emit(p)
	r.invokeHook("OnPartyCreated", func(hookCtx context.Context) error {
		return r.hooks.OnPartyCreated(hookCtx, p.id)
	})

	return p, nil
}

// Lookup returns the party with the given identifier.
func (r *Registry) Lookup(id string) (*Party, bool) {
	return r.parties.Load(id)
}

// FindByMember returns a party the participant is a member of, if any.
func (r *Registry) FindByMember(h Handle) (*Party, bool) {
	if h == nil {
		return nil, false
	}

	return r.findPartyOf(h.UserID())
}

// ListAll returns all currently registered parties.
func (r *Registry) ListAll() []*Party {
	var all []*Party
	r.parties.Range(func(_ string, p *Party) bool {
		all = append(all, p)

		return true
	})

	return all
}

// Current returns the party rehydrated on this reserved destination.
func (r *Registry) Current() (*Party, bool) {
	p := r.current.Load()

	return p, p != nil
}

// PartyCreated is the registry-level stream of newly created parties.
func (r *Registry) PartyCreated() *events.Stream[*Party] {
	return r.partyCreated
}

// PartyDestroyed is the registry-level stream of destroyed parties.
func (r *Registry) PartyDestroyed() *events.Stream[*Party] {
	return r.partyDestroyed
}

// ServerStarted fires once on a reserved destination after rehydration
// completes, with the rebuilt party.
func (r *Registry) ServerStarted() *events.Stream[*Party] {
	return r.serverStarted
}

// MembersResolved fires once per rehydration with the final roster.
func (r *Registry) MembersResolved() *events.Stream[MembersResolvedEvent] {
	return r.membersResolved
}

// findPartyOf scans the index for a party containing the participant.
// Any match is returned; scan order is unspecified.
func (r *Registry) findPartyOf(id UserID) (*Party, bool) {
	var found *Party
	r.parties.Range(func(_ string, p *Party) bool {
		if p.HasMember(id) {
			found = p

			return false
		}

		return true
	})

	return found, found != nil
}

func (r *Registry) isStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ctx != nil
}

// lifecycleContext returns the registry's background context, or a cancelled
// context when the registry is not running.
func (r *Registry) lifecycleContext() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx != nil {
		return r.ctx
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	return cancelled
}

// invokeHook runs a lifecycle hook asynchronously. Hook errors are logged,
// never propagated.
func (r *Registry) invokeHook(name string, fn func(context.Context) error) {
	ctx := r.lifecycleContext()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := fn(ctx); err != nil {
			r.logger.Warn("lifecycle hook failed", "hook", name, "error", err)
			if hookErr := r.hooks.OnError(ctx, err); hookErr != nil {
				r.logger.Debug("error hook failed", "error", hookErr)
			}
		}
	}()
}

// operationContext derives a context for a KV operation running outside a
// caller-supplied context (idle cleanup, shutdown cleanup).
func (r *Registry) operationContext() (context.Context, context.CancelFunc) {
	timeout := r.cfg.OperationTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return context.WithTimeout(context.Background(), timeout)
}

// removeParty drops a destroyed party from the index and clears the current
// pointer if it pointed at it.
func (r *Registry) removeParty(p *Party) {
	r.parties.Delete(p.id)
	r.current.CompareAndSwap(p, nil)
}

var errRegistryStoreUnavailable = errors.New("snapshot store not initialized")

// snapshotStore returns the store, guarding against use before Start.
func (r *Registry) snapshotStore() (*snapshot.Store, error) {
	if r.store == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotStarted, errRegistryStoreUnavailable)
	}

	return r.store, nil
}
