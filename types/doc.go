// Package types contains the shared types and interfaces for the party library.
//
// It exists so that internal packages and subpackages (policy, strategy,
// snapshot, directory, relocation) can share these definitions without
// importing the root party package, which would create import cycles. The
// root package re-exports the commonly used names via type aliases, so most
// consumers never import this package directly.
//
// Key types:
//   - UserID / Handle / Member: durable identifier, live handle, roster slot
//   - PartyType: closed admission-policy set (public, friends, private)
//   - PartyState: party lifecycle state
//   - Directory / Relocator / SuccessorStrategy: pluggable collaborators
//   - Logger / MetricsCollector / Hooks: observability surfaces
package types
