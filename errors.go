package party

import "github.com/denispionicul/party/types"

// Sentinel errors re-exported from the types package so callers can use
// errors.Is(err, party.ErrX) without importing types directly.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrNATSConnectionRequired is returned when the NATS connection is nil.
	ErrNATSConnectionRequired = types.ErrNATSConnectionRequired

	// ErrDirectoryRequired is returned when the participant directory is nil.
	ErrDirectoryRequired = types.ErrDirectoryRequired

	// ErrRelocatorRequired is returned when the relocator is nil.
	ErrRelocatorRequired = types.ErrRelocatorRequired

	// ErrAlreadyStarted is returned when Start is called on a running registry.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when operations require a started registry.
	ErrNotStarted = types.ErrNotStarted

	// ErrNotAuthoritative is returned when a mutation is attempted outside
	// the authoritative process.
	ErrNotAuthoritative = types.ErrNotAuthoritative

	// ErrInvalidHandle is returned when a nil participant handle is supplied.
	ErrInvalidHandle = types.ErrInvalidHandle

	// ErrInvalidOwner is returned when a party is created with a nil owner.
	ErrInvalidOwner = types.ErrInvalidOwner

	// ErrInvalidDestination is returned when a party destination is empty.
	ErrInvalidDestination = types.ErrInvalidDestination

	// ErrPartyDestroyed is returned when mutating a destroyed party.
	ErrPartyDestroyed = types.ErrPartyDestroyed

	// ErrTransferFailed is returned when the relocation request or the
	// snapshot write fails.
	ErrTransferFailed = types.ErrTransferFailed

	// ErrRelocationInProgress is returned by mutations and repeated Relocate
	// calls on a party that is relocating or already relocated.
	ErrRelocationInProgress = types.ErrRelocationInProgress
)
