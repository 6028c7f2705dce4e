package party

import (
	"github.com/denispionicul/party/policy"
)

// Option configures a Registry with optional dependencies.
type Option func(*registryOptions)

// registryOptions holds optional Registry configuration.
type registryOptions struct {
	logger    Logger
	metrics   MetricsCollector
	hooks     *Hooks
	successor SuccessorStrategy
	policy    policy.Evaluator
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (slog adapter, test logger, ...)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	reg, err := party.New(&cfg, conn, dir, rel, party.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := metrics.NewPrometheus(nil)
//	reg, err := party.New(&cfg, conn, dir, rel, party.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *registryOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	hooks := &party.Hooks{
//	    OnPartyCreated: func(ctx context.Context, partyID string) error {
//	        return audit(partyID)
//	    },
//	}
//	reg, err := party.New(&cfg, conn, dir, rel, party.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *registryOptions) {
		o.hooks = hooks
	}
}

// WithSuccessorStrategy sets the strategy used to elect a new owner when the
// current owner leaves. The default picks uniformly at random among the
// remaining members.
//
// Parameters:
//   - s: SuccessorStrategy implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	reg, err := party.New(&cfg, conn, dir, rel,
//	    party.WithSuccessorStrategy(strategy.NewFirstJoined()))
func WithSuccessorStrategy(s SuccessorStrategy) Option {
	return func(o *registryOptions) {
		o.successor = s
	}
}

// WithPolicy sets the admission policy evaluator. The default is the
// standard evaluator: public parties admit everyone, friends-only parties
// consult the directory's friend relation, private parties compare secrets.
//
// Parameters:
//   - evaluator: policy.Evaluator implementation
//
// Returns:
//   - Option: Functional option for New
func WithPolicy(evaluator policy.Evaluator) Option {
	return func(o *registryOptions) {
		o.policy = evaluator
	}
}
