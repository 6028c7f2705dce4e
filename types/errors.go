package types

import "errors"

// Sentinel errors for the party library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components use these sentinels for known error conditions and
// wrap external errors with context using fmt.Errorf("...: %w", err).
//
// Precondition violations (invalid arguments, off-authority callers,
// operations on destroyed parties) are always surfaced as errors and abort
// the call with no partial mutation. Policy rejections are never errors:
// membership operations return false for those.

// Registry errors - Public API errors returned by the Registry.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNATSConnectionRequired is returned when the NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")

	// ErrDirectoryRequired is returned when the participant directory is nil.
	ErrDirectoryRequired = errors.New("participant directory is required")

	// ErrRelocatorRequired is returned when the relocator is nil.
	ErrRelocatorRequired = errors.New("relocator is required")

	// ErrAlreadyStarted is returned when Start is called on a running registry.
	ErrAlreadyStarted = errors.New("registry already started")

	// ErrNotStarted is returned when operations require a started registry.
	ErrNotStarted = errors.New("registry not started")

	// ErrNotAuthoritative is returned when a mutation is attempted outside
	// the authoritative process.
	ErrNotAuthoritative = errors.New("operation requires server authority")
)

// Party errors - Errors returned by party mutations.
var (
	// ErrInvalidHandle is returned when a nil participant handle is supplied.
	ErrInvalidHandle = errors.New("invalid participant handle")

	// ErrInvalidOwner is returned when a party is created with a nil owner.
	ErrInvalidOwner = errors.New("invalid party owner")

	// ErrInvalidDestination is returned when a party destination is empty.
	ErrInvalidDestination = errors.New("invalid party destination")

	// ErrPartyDestroyed is returned when mutating a destroyed party.
	ErrPartyDestroyed = errors.New("party has been destroyed")
)

// Transfer errors - Errors surfaced by the handoff coordinator.
var (
	// ErrTransferFailed is returned when the relocation request or the
	// snapshot write fails. Transfers are never retried automatically; the
	// party stays registered and mutable.
	ErrTransferFailed = errors.New("party transfer failed")

	// ErrRelocationInProgress is returned by mutations and repeated Relocate
	// calls on a party that is relocating or already relocated. A relocated
	// party is frozen until the destination rebuilds it.
	ErrRelocationInProgress = errors.New("relocation already in progress")
)
