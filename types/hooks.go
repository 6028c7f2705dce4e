package types

import "context"

// Hooks defines callbacks for registry and party lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking mutations. Hooks receive the registry's lifecycle
// context, which is cancelled during shutdown.
//
// Hook execution behavior:
//   - Hooks run concurrently and may not complete before Stop() returns
//   - Hook errors are logged but don't fail registry operations
//
// For synchronous, per-party notifications use the event streams exposed by
// Party and Registry instead; hooks are for cross-cutting side effects such
// as metrics or audit logging.
type Hooks struct {
	// OnPartyCreated is called after a party is created and registered.
	OnPartyCreated func(ctx context.Context, partyID string) error

	// OnPartyDestroyed is called after a party is destroyed and removed.
	OnPartyDestroyed func(ctx context.Context, partyID string) error

	// OnStateChanged is called when a party transitions lifecycle state.
	OnStateChanged func(ctx context.Context, partyID string, from, to PartyState) error

	// OnServerStarted is called after rehydration reconstructs a party on a
	// reserved destination server.
	OnServerStarted func(ctx context.Context, partyID string) error

	// OnError is called when a recoverable background error occurs.
	OnError func(ctx context.Context, err error) error
}
