// Package snapshot implements the handoff snapshot: the serialized,
// process-independent form of a party plus the shared store it travels
// through.
//
// Live participant handles are only valid within one process, so the codec
// converts the roster to durable identifiers (order-preserving) before a
// party crosses a server boundary, and back into unresolved roster slots on
// the destination. The Store persists snapshots in a NATS JetStream
// KeyValue bucket keyed by the reserved server's private identifier; the
// bucket TTL bounds how long an unconsumed snapshot survives.
package snapshot
