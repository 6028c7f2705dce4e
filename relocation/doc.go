// Package relocation implements the Relocator interface over NATS
// request-reply.
//
// A relocation service somewhere in the fleet subscribes to the relocation
// subject and answers reservation requests with an access code and, when
// asked, a reserved destination server id. Client is the requesting side;
// Serve wires a handler function as the answering side, which is also what
// the tests use.
package relocation
