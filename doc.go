// Package party provides a Go library for managing multiplayer parties with
// policy-driven admission and NATS-backed cross-server handoff.
//
// A party is an ordered group of participants travelling together to a
// destination place. The library tracks party lifecycle (Active →
// Relocating → Relocated → Destroyed), enforces roster invariants
// (capacity, uniqueness, join order), elects successor owners when the
// owner leaves, and hands parties between processes through TTL'd JetStream
// KV snapshots keyed by reserved server identifiers.
//
// # Quick Start
//
// Basic usage on an authoritative origin server:
//
//	import (
//	    "github.com/denispionicul/party"
//	    "github.com/denispionicul/party/directory"
//	    "github.com/denispionicul/party/relocation"
//	)
//
//	cfg := party.DefaultConfig()
//	dir := directory.NewLocal()
//	rel, _ := relocation.NewClient(natsConn)
//
//	reg, err := party.New(&cfg, natsConn, dir, rel)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := reg.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer reg.Stop(context.Background())
//
//	p, _ := reg.Create(ctx, owner, "place-1", party.CreateOptions{MaxCapacity: 4})
//	admitted, _ := p.AddMember(ctx, friend, "")
//
// # Key Features
//
//   - Policy-Driven Admission: public, friends-only and private (secret)
//     parties; rejections are verdicts, not errors
//   - Owner Succession: pluggable strategies (random, first-joined,
//     rendezvous-hash) elect a new owner when the current one leaves
//   - Cross-Server Handoff: rosters are reduced to durable identifiers,
//     persisted in a TTL'd KV bucket and rebuilt on the destination
//   - Bounded Rehydration: the destination waits up to ResolveTimeout for
//     each expected participant, then proceeds with whoever arrived
//   - Event Streams: synchronous in-process streams for member, owner and
//     lifecycle changes, plus async hooks for cross-cutting side effects
//
// # Handoff Protocol
//
// A relocation walks the party through its lifecycle:
//
//	Active → Relocating → Relocated        (origin process)
//	snapshot → rehydrate → resolve roster  (destination process)
//
// The origin requests a reservation, persists a snapshot under the reserved
// server id and becomes durable-only. The destination's registry consumes
// the snapshot at Start, re-registers the party and resolves participants
// as they reconnect. An idle watcher deletes the snapshot once the
// destination drains.
//
// # Advanced Usage
//
// Custom successor strategy and hooks:
//
//	import (
//	    "github.com/denispionicul/party"
//	    "github.com/denispionicul/party/strategy"
//	)
//
//	hooks := &party.Hooks{
//	    OnPartyDestroyed: func(ctx context.Context, partyID string) error {
//	        // Audit or cleanup
//	        return nil
//	    },
//	}
//
//	reg, err := party.New(&cfg, natsConn, dir, rel,
//	    party.WithSuccessorStrategy(strategy.NewRendezvous(0)),
//	    party.WithHooks(hooks),
//	)
//
// See the examples/ directory for complete working examples.
package party
