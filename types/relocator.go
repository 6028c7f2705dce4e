package types

import "context"

// Reservation is the result of a successful relocation request.
type Reservation struct {
	// AccessCode grants the relocated members entry to the reserved server.
	AccessCode string

	// ServerID is the private identifier of the reserved destination
	// process. It keys the handoff snapshot in the shared store.
	ServerID string
}

// Relocator issues relocation requests to the surrounding platform.
//
// A relocation moves the listed participants to the destination place,
// optionally reserving a fresh server instance for them. The call is
// fallible and is never retried by this library; callers decide whether a
// failed transfer is worth repeating.
type Relocator interface {
	// Request relocates the given participants to the destination.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - destination: Target place identifier
	//   - members: Durable identifiers of the participants to move, in roster order
	//   - reserveServer: Request a freshly reserved destination instance
	//
	// Returns:
	//   - Reservation: Access code and reserved server identifier
	//   - error: Transport or platform failure; no partial success
	Request(ctx context.Context, destination PlaceID, members []UserID, reserveServer bool) (Reservation, error)
}
