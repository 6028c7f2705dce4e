package party

import (
	"fmt"
	"time"
)

// Config is the configuration for the Registry.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// Authority marks this process as authoritative for party mutations.
	// Non-authoritative processes can look parties up but any mutating
	// operation fails with ErrNotAuthoritative.
	Authority bool `yaml:"authority"`

	// ReservedServerID is set when this process is a reserved destination
	// created by a transfer. Start consumes the snapshot stored under this
	// id and rebuilds the party. Empty for origin processes.
	ReservedServerID string `yaml:"reservedServerId"`

	// SnapshotBucket is the JetStream KV bucket holding transfer snapshots.
	SnapshotBucket string `yaml:"snapshotBucket"`

	// SnapshotTTL is how long a transfer snapshot remains in the bucket
	// before the store reaps it. Must cover the destination's startup plus
	// its resolution window.
	SnapshotTTL time.Duration `yaml:"snapshotTtl"`

	// ResolveTimeout bounds how long rehydration waits for each expected
	// participant to connect before leaving the roster slot unresolved.
	ResolveTimeout time.Duration `yaml:"resolveTimeout"`

	// OperationTimeout is the timeout for KV operations (get, put, delete).
	// Recommended: 10 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// StartupTimeout is the maximum time to wait for the registry to fully
	// start, including snapshot bucket creation and rehydration load.
	StartupTimeout time.Duration `yaml:"startupTimeout"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// DefaultMaxCapacity is the roster capacity applied when Create is not
	// given an explicit one. Must be positive.
	DefaultMaxCapacity int `yaml:"defaultMaxCapacity"`

	// AllowMultiMembership permits a participant to join a party while
	// already a member of another. Disabled by default.
	AllowMultiMembership bool `yaml:"allowMultiMembership"`
}

// DefaultConfig returns a Config with sensible defaults for an
// authoritative origin process.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Authority:          true,
		SnapshotBucket:     "party_snapshots",
		SnapshotTTL:        5 * time.Minute,
		ResolveTimeout:     30 * time.Second,
		OperationTimeout:   10 * time.Second,
		StartupTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		DefaultMaxCapacity: 10,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Boolean fields keep their zero value; only empty/zero scalar fields are
// filled in.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.SnapshotBucket == "" {
		cfg.SnapshotBucket = defaults.SnapshotBucket
	}
	if cfg.SnapshotTTL == 0 {
		cfg.SnapshotTTL = defaults.SnapshotTTL
	}
	if cfg.ResolveTimeout == 0 {
		cfg.ResolveTimeout = defaults.ResolveTimeout
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.DefaultMaxCapacity == 0 {
		cfg.DefaultMaxCapacity = defaults.DefaultMaxCapacity
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - SnapshotBucket must be non-empty
//   - SnapshotTTL > 0 and >= ResolveTimeout (snapshot must outlive resolution)
//   - ResolveTimeout > 0
//   - OperationTimeout > 0
//   - DefaultMaxCapacity > 0
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.SnapshotBucket == "" {
		return fmt.Errorf("SnapshotBucket must not be empty")
	}

	if cfg.SnapshotTTL <= 0 {
		return fmt.Errorf("SnapshotTTL must be > 0, got %v", cfg.SnapshotTTL)
	}

	if cfg.ResolveTimeout <= 0 {
		return fmt.Errorf("ResolveTimeout must be > 0, got %v", cfg.ResolveTimeout)
	}

	if cfg.SnapshotTTL < cfg.ResolveTimeout {
		return fmt.Errorf(
			"SnapshotTTL (%v) must be >= ResolveTimeout (%v) so the snapshot outlives the resolution window",
			cfg.SnapshotTTL, cfg.ResolveTimeout,
		)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("OperationTimeout must be > 0, got %v", cfg.OperationTimeout)
	}

	if cfg.DefaultMaxCapacity <= 0 {
		return fmt.Errorf("DefaultMaxCapacity must be > 0, got %d", cfg.DefaultMaxCapacity)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in New() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	// A snapshot that barely outlives the resolution window risks expiring
	// while the destination is still starting up.
	if cfg.SnapshotTTL < 2*cfg.ResolveTimeout {
		logger.Warn(
			"SnapshotTTL is below recommended minimum",
			"snapshotTTL", cfg.SnapshotTTL,
			"resolveTimeout", cfg.ResolveTimeout,
			"recommended", 2*cfg.ResolveTimeout,
		)
	}

	if cfg.ReservedServerID != "" && !cfg.Authority {
		logger.Warn(
			"ReservedServerID set on a non-authoritative process; rehydration will not run",
			"reservedServerID", cfg.ReservedServerID,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are much faster than production defaults to enable rapid
// iteration without sacrificing test coverage. Use DefaultConfig() for
// production deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := party.TestConfig()
//	cfg.SnapshotBucket = "test_snapshots"
//	reg, err := party.New(&cfg, nc, dir, rel)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.SnapshotTTL = 1 * time.Minute
	cfg.ResolveTimeout = 500 * time.Millisecond
	cfg.OperationTimeout = 5 * time.Second
	cfg.StartupTimeout = 10 * time.Second
	cfg.ShutdownTimeout = 5 * time.Second

	return cfg
}
