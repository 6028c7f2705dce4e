// Package directory provides participant directory implementations.
//
// A directory answers three questions about participants: who is connected
// to this process (presence), how to turn a durable identifier back into a
// live handle (resolution), and whether two participants are friends
// (relationship lookup, used by the friends-only join policy).
//
// Two implementations are provided:
//   - Local: in-memory directory with an explicit friend graph, intended for
//     single-process deployments and tests.
//   - NATS: presence directory backed by a TTL'd JetStream KV bucket, where
//     each process announces its connected participants and watches the
//     bucket for connect/disconnect events from the rest of the fleet.
package directory
