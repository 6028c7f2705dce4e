package relocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/denispionicul/party/internal/logging"
	"github.com/denispionicul/party/types"
)

// DefaultSubject is the request-reply subject for reservation requests.
const DefaultSubject = "party.relocate"

// Request is the wire format of a reservation request.
type Request struct {
	// Destination identifies the target place.
	Destination string `json:"destination"`

	// MemberIDs lists the participants the reservation is for.
	MemberIDs []int64 `json:"member_ids"`

	// ReserveServer asks the service to pin a specific destination server
	// and return its id.
	ReserveServer bool `json:"reserve_server"`
}

// Response is the wire format of a reservation reply. Error is set instead
// of the reservation fields when the service rejects the request.
type Response struct {
	AccessCode string `json:"access_code,omitempty"`
	ServerID   string `json:"server_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Client requests reservations from a relocation service over NATS.
type Client struct {
	conn    *nats.Conn
	subject string
	logger  types.Logger
}

// Compile-time assertion that Client implements Relocator.
var _ types.Relocator = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSubject overrides the request subject. The default is DefaultSubject.
func WithSubject(subject string) ClientOption {
	return func(c *Client) {
		if subject != "" {
			c.subject = subject
		}
	}
}

// WithLogger sets the client's logger. The default discards all output.
func WithLogger(logger types.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a relocation client on an existing NATS connection.
func NewClient(conn *nats.Conn, opts ...ClientOption) (*Client, error) {
	if conn == nil {
		return nil, errors.New("nil NATS connection")
	}

	c := &Client{
		conn:    conn,
		subject: DefaultSubject,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Request asks the relocation service for a reservation.
//
// Parameters:
//   - ctx: Context bounding the round trip
//   - destination: Target place
//   - members: Participants the reservation covers
//   - reserveServer: Whether to pin a destination server
//
// Returns:
//   - types.Reservation: Access code and, when requested, the reserved server id
//   - error: Transport failure, malformed reply, or service-side rejection
func (c *Client) Request(ctx context.Context, destination types.PlaceID, members []types.UserID, reserveServer bool) (types.Reservation, error) {
	req := Request{
		Destination:   string(destination),
		MemberIDs:     make([]int64, len(members)),
		ReserveServer: reserveServer,
	}
	for i, id := range members {
		req.MemberIDs[i] = int64(id)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return types.Reservation{}, fmt.Errorf("failed to encode reservation request: %w", err)
	}

	c.logger.Debug("requesting reservation",
		"subject", c.subject,
		"destination", destination,
		"members", len(members),
		"reserve_server", reserveServer,
	)

	msg, err := c.conn.RequestWithContext(ctx, c.subject, data)
	if err != nil {
		return types.Reservation{}, fmt.Errorf("reservation request failed: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return types.Reservation{}, fmt.Errorf("malformed reservation response: %w", err)
	}

	if resp.Error != "" {
		return types.Reservation{}, fmt.Errorf("reservation rejected: %s", resp.Error)
	}

	return types.Reservation{
		AccessCode: resp.AccessCode,
		ServerID:   resp.ServerID,
	}, nil
}

// Handler answers reservation requests on the service side.
type Handler func(ctx context.Context, req Request) (types.Reservation, error)

// Serve subscribes a handler to the given subject (empty means
// DefaultSubject) and replies to each request. Handler errors are reported
// to the requester in the response's Error field.
//
// The returned subscription should be unsubscribed or drained on shutdown.
func Serve(conn *nats.Conn, subject string, handler Handler) (*nats.Subscription, error) {
	if conn == nil {
		return nil, errors.New("nil NATS connection")
	}
	if handler == nil {
		return nil, errors.New("nil handler")
	}
	if subject == "" {
		subject = DefaultSubject
	}

	return conn.Subscribe(subject, func(msg *nats.Msg) {
		var resp Response

		var req Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			resp.Error = fmt.Sprintf("malformed request: %v", err)
		} else {
			reservation, err := handler(context.Background(), req)
			if err != nil {
				resp.Error = err.Error()
			} else {
				resp.AccessCode = reservation.AccessCode
				resp.ServerID = reservation.ServerID
			}
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return
		}
		_ = msg.Respond(data)
	})
}
