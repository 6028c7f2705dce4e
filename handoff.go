package party

import (
	"context"
	"fmt"
	"time"

	"github.com/denispionicul/party/snapshot"
)

// Relocate transfers the party to its destination on a reserved server.
//
// The coordinator requests a reservation, strips the roster down to durable
// identifiers (preserving join order), persists the snapshot under the
// reserved server's identifier and moves the party to StateRelocated. The
// destination process consumes the snapshot on startup and rebuilds the
// party there.
//
// A failed reservation or snapshot write returns an error wrapping
// ErrTransferFailed and puts the party back in StateActive; transfers are
// never retried automatically and the party stays registered and mutable.
// After a reservation failure the roster keeps its live handles; after a
// snapshot write failure the roster remains durable-only.
//
// Parameters:
//   - ctx: Context bounding the reservation round trip and the snapshot write
//
// Returns:
//   - error: ErrNotAuthoritative, ErrNotStarted, ErrPartyDestroyed,
//     ErrRelocationInProgress, or a wrapped ErrTransferFailed
func (p *Party) Relocate(ctx context.Context) error {
	if !p.registry.cfg.Authority {
		return ErrNotAuthoritative
	}

	store, err := p.registry.snapshotStore()
	if err != nil {
		return err
	}

	start := time.Now()

	p.mu.Lock()
	switch p.state {
	case StateDestroyed:
		p.mu.Unlock()

		return ErrPartyDestroyed
	case StateRelocating, StateRelocated:
		p.mu.Unlock()

		return ErrRelocationInProgress
	}

	p.transitionLocked(StateRelocating)
	ids := snapshot.DurableIDs(p.members)
	destination := p.destination
	p.mu.Unlock()

	reservation, err := p.registry.rel.Request(ctx, destination, ids, true)
	if err != nil {
		p.mu.Lock()
		p.transitionLocked(StateActive)
		p.mu.Unlock()

		p.registry.metrics.RecordHandoff("relocate_failed", time.Since(start).Seconds())
		p.registry.logger.Error("party relocation request failed",
			"party_id", p.id, "destination", destination, "error", err)

		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	// Commit the roster to durable form before persisting; state
	// Relocating keeps other mutators out in between.
	p.mu.Lock()
	p.members = snapshot.UnresolvedMembers(ids)
	record := p.recordLocked(ids)
	p.mu.Unlock()

	snap := &snapshot.Snapshot{
		AccessCode: reservation.AccessCode,
		Party:      record,
	}

	if err := store.Put(ctx, reservation.ServerID, snap); err != nil {
		p.mu.Lock()
		p.transitionLocked(StateActive)
		p.mu.Unlock()

		p.registry.metrics.RecordHandoff("persist_failed", time.Since(start).Seconds())
		p.registry.logger.Error("party snapshot write failed",
			"party_id", p.id, "server_id", reservation.ServerID, "error", err)

		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	p.mu.Lock()
	p.transitionLocked(StateRelocated)
	p.mu.Unlock()

	p.registry.metrics.RecordHandoff("ok", time.Since(start).Seconds())
	p.registry.logger.Info("party relocated",
		"party_id", p.id,
		"destination", destination,
		"server_id", reservation.ServerID,
		"members", len(ids),
		"elapsed", time.Since(start),
	)

	return nil
}

// recordLocked builds the serialized party record. Callers must hold p.mu.
func (p *Party) recordLocked(ids []UserID) snapshot.PartyRecord {
	data := make(map[string]any, len(p.data))
	for k, v := range p.data {
		data[k] = v
	}

	return snapshot.PartyRecord{
		ID:          p.id,
		Name:        p.name,
		OwnerID:     p.ownerID,
		Destination: p.destination,
		MaxCapacity: p.maxCapacity,
		Type:        p.partyType,
		Secret:      p.secret,
		MemberIDs:   ids,
		Data:        data,
	}
}
