package party

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/denispionicul/party/snapshot"
	"github.com/denispionicul/party/types"
)

// rehydrate consumes the handoff snapshot stored under this process's
// reserved server identifier and rebuilds the party locally.
//
// An absent snapshot is not an error: the process simply starts empty.
// Load and decode failures are propagated to Start. The rebuilt party
// begins with a durable-only roster; resolveMembers then fills in live
// handles in the background.
func (r *Registry) rehydrate(ctx context.Context) error {
	snap, err := r.store.Get(ctx, r.cfg.ReservedServerID)
	if errors.Is(err, snapshot.ErrNotFound) {
		r.logger.Debug("no handoff snapshot to consume",
			"server_id", r.cfg.ReservedServerID)

		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load handoff snapshot: %w", err)
	}

	rec := snap.Party
	p := newParty(r, partyConfig{
		id:          rec.ID,
		name:        rec.Name,
		ownerID:     rec.OwnerID,
		destination: rec.Destination,
		maxCapacity: rec.MaxCapacity,
		partyType:   rec.Type,
		secret:      rec.Secret,
		members:     snapshot.UnresolvedMembers(rec.MemberIDs),
	})
	if len(rec.Data) > 0 {
		p.data = rec.Data
	}

	r.parties.Store(p.id, p)
	r.current.Store(p)

	r.logger.Info("party rehydrated from snapshot",
		"party_id", p.id,
		"owner_id", rec.OwnerID,
		"members", len(rec.MemberIDs),
		"access_code", snap.AccessCode,
	)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.resolveMembers(p)
	}()

	return nil
}

// resolveMembers turns the rehydrated party's durable identifiers back into
// live handles.
//
// Each expected participant gets its own waiter: identifiers already
// connected resolve immediately through the directory; the rest wait for a
// matching presence connect, all sharing one deadline of cfg.ResolveTimeout.
// Resolution is join-all — a participant that never shows up does not
// cancel the others; its slot simply keeps the bare identifier and the
// miss is debug-logged.
func (r *Registry) resolveMembers(p *Party) {
	ctx, cancel := context.WithTimeout(r.lifecycleContext(), r.cfg.ResolveTimeout)
	defer cancel()

	// Subscribe before snapshotting presence so connects arriving in
	// between are not missed.
	presence, stop, err := r.dir.Watch(ctx)
	if err != nil {
		r.logger.Warn("presence watch unavailable; resolving connected participants only",
			"error", err)
	} else {
		defer stop()
	}

	members := p.Members()
	results := make([]Member, len(members))
	waiters := make(map[UserID]chan Handle)

	var pending []int
	for i, m := range members {
		if h, ok := r.dir.Resolve(m.ID); ok {
			results[i] = NewMember(h)
			r.metrics.RecordResolution(true, 0)

			continue
		}

		results[i] = m
		waiters[m.ID] = make(chan Handle, 1)
		pending = append(pending, i)
	}

	if len(pending) > 0 && presence != nil {
		// Dispatcher routes connects to per-participant waiters. The
		// waiters map is read-only from here on.
		go func() {
			for ev := range presence {
				if ev.Kind != types.PresenceConnect || ev.Handle == nil {
					continue
				}
				if ch, ok := waiters[ev.ID]; ok {
					select {
					case ch <- ev.Handle:
					default:
					}
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for _, i := range pending {
		wg.Add(1)
		go func(slot int, id UserID, ch chan Handle) {
			defer wg.Done()

			start := time.Now()
			select {
			case h := <-ch:
				results[slot] = NewMember(h)
				r.metrics.RecordResolution(true, time.Since(start).Seconds())
			case <-ctx.Done():
				r.metrics.RecordResolution(false, time.Since(start).Seconds())
				r.logger.Debug("participant did not reconnect within resolve window",
					"party_id", p.id, "user_id", id)
			}
		}(i, members[i].ID, waiters[members[i].ID])
	}
	wg.Wait()

	resolved := 0
	for _, m := range results {
		if m.Resolved() {
			resolved++
		}
	}

	p.mu.Lock()
	if p.state != StateDestroyed {
		p.members = results
	}
	p.mu.Unlock()

	r.logger.Info("party roster resolved",
		"party_id", p.id, "resolved", resolved, "total", len(results))

	final := make([]Member, len(results))
	copy(final, results)
	r.membersResolved.Emit(MembersResolvedEvent{Party: p, Members: final})
	r.serverStarted.Emit(p)
	r.invokeHook("OnServerStarted", func(hookCtx context.Context) error {
		return r.hooks.OnServerStarted(hookCtx, p.id)
	})
}

// watchIdle reaps the consumed snapshot once the destination drains: on
// every presence change (and once more at shutdown) a zero-participant
// directory triggers a best-effort delete of this server's snapshot key.
func (r *Registry) watchIdle() {
	defer r.wg.Done()

	ctx := r.lifecycleContext()
	presence, stop, err := r.dir.Watch(ctx)
	if err != nil {
		r.logger.Warn("idle watcher could not subscribe to presence", "error", err)

		return
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-presence:
			if !ok {
				return
			}
			if ev.Kind == types.PresenceDisconnect {
				r.cleanupIfIdle()
			}
		}
	}
}

// cleanupIfIdle deletes this server's snapshot entry when no participants
// remain connected. The delete is idempotent, so races between the idle
// watcher and shutdown cleanup are harmless.
func (r *Registry) cleanupIfIdle() {
	if len(r.dir.Connected()) > 0 {
		return
	}
	if r.store == nil {
		return
	}

	ctx, cancel := r.operationContext()
	defer cancel()

	if err := r.store.Delete(ctx, r.cfg.ReservedServerID); err != nil {
		r.logger.Warn("idle snapshot cleanup failed",
			"server_id", r.cfg.ReservedServerID, "error", err)

		return
	}

	r.logger.Debug("snapshot cleaned up after idle",
		"server_id", r.cfg.ReservedServerID)
}
