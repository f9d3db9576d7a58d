// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
)

// DefaultBatchSize is how many rows one run claims per target.
const DefaultBatchSize = 50

// StaleClaimAfter is how long a row may sit in processing before Run
// hands it back to pending.
const StaleClaimAfter = 10 * time.Minute

var (
	ErrUnknownTarget = errors.New("unknown sync target")
	ErrNotConfigured = errors.New("sync target is not configured")
)

// Targets lists every outbound system in delivery order.
var Targets = []string{models.TargetHubSpot, models.TargetLoops}

func ValidTarget(target string) bool {
	return target == models.TargetHubSpot || target == models.TargetLoops
}

// Enqueue stores a pending delivery of contact to target. Pass a Store
// bound to a transaction to enqueue atomically with the change that
// caused it.
func Enqueue(ctx context.Context, st *store.Store, target, event string, nominationID *string, contact models.SyncContact) error {
	payload, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("encode outbox payload: %w", err)
	}
	return st.EnqueueOutbox(ctx, &models.OutboxEntry{
		Target:       target,
		Event:        event,
		NominationID: nominationID,
		Payload:      string(payload),
	})
}

// Runner drains pending outbox rows into the configured clients.
type Runner struct {
	store      *store.Store
	clients    map[string]Client
	staleAfter time.Duration
}

// NewRunner builds a runner. Targets without a client are skipped by Run
// and rejected by RunOnce; their rows stay pending.
func NewRunner(st *store.Store, clients map[string]Client) *Runner {
	return &Runner{store: st, clients: clients, staleAfter: StaleClaimAfter}
}

// RunOnce claims up to limit pending rows for target and delivers them in
// order. A 409 is resolved inside the client; any other failure marks the
// row failed.
func (r *Runner) RunOnce(ctx context.Context, target string, limit int) (models.SyncRunResponse, error) {
	out := models.SyncRunResponse{Target: target}
	if !ValidTarget(target) {
		return out, ErrUnknownTarget
	}
	client, ok := r.clients[target]
	if !ok || client == nil {
		return out, ErrNotConfigured
	}
	if limit <= 0 {
		limit = DefaultBatchSize
	}

	entries, err := r.store.PendingOutbox(ctx, target, limit)
	if err != nil {
		return out, fmt.Errorf("list pending outbox: %w", err)
	}

	for _, e := range entries {
		claimed, err := r.store.ClaimOutbox(ctx, e.ID)
		if err != nil {
			return out, fmt.Errorf("claim outbox row: %w", err)
		}
		if !claimed {
			continue
		}
		out.Claimed++

		if err := r.deliver(ctx, client, e); err != nil {
			out.Failed++
			slog.Warn("outbox delivery failed", "target", target, "outbox_id", e.ID, "event", e.Event, "error", err)
			if ctx.Err() != nil {
				// shutting down: leave the row for the next run
				if rerr := r.store.ReleaseOutbox(context.WithoutCancel(ctx), e.ID, err.Error()); rerr != nil {
					slog.Error("failed to release outbox row", "outbox_id", e.ID, "error", rerr)
				}
				return out, ctx.Err()
			}
			if merr := r.store.MarkOutboxFailed(ctx, e.ID, err.Error()); merr != nil {
				return out, fmt.Errorf("mark outbox failed: %w", merr)
			}
		} else {
			out.Sent++
			if err := r.store.MarkOutboxSent(ctx, e.ID); err != nil {
				return out, fmt.Errorf("mark outbox sent: %w", err)
			}
		}

		if e.NominationID != nil {
			if err := r.settle(ctx, *e.NominationID); err != nil {
				slog.Error("failed to clear sync flag", "nomination_id", *e.NominationID, "error", err)
			}
		}
	}

	if out.Claimed > 0 {
		slog.Info("outbox run finished", "target", target, "claimed", out.Claimed, "sent", out.Sent, "failed", out.Failed)
	}
	return out, nil
}

func (r *Runner) deliver(ctx context.Context, client Client, e models.OutboxEntry) error {
	var contact models.SyncContact
	if err := json.Unmarshal([]byte(e.Payload), &contact); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if contact.Email == "" {
		return errors.New("payload has no email")
	}
	return client.Upsert(ctx, contact)
}

// settle clears the nomination's sync flag once none of its rows are
// waiting for delivery.
func (r *Runner) settle(ctx context.Context, nominationID string) error {
	n, err := r.store.OutstandingOutbox(ctx, nominationID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return r.store.ClearSyncPending(ctx, nominationID)
}

// RequeueStale releases rows that have been processing for longer than
// the stale claim window back to pending.
func (r *Runner) RequeueStale(ctx context.Context) (int64, error) {
	return r.store.ReleaseStaleOutbox(ctx, time.Now().Add(-r.staleAfter))
}

func (r *Runner) requeueStale(ctx context.Context) {
	n, err := r.RequeueStale(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("failed to release stale outbox rows", "error", err)
		}
		return
	}
	if n > 0 {
		slog.Warn("released stale outbox rows", "count", n)
	}
}

// Run drains every configured target on each tick until ctx is done.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("outbox runner started", "interval", interval.String())
	r.requeueStale(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox runner stopped")
			return
		case <-ticker.C:
			r.requeueStale(ctx)
			for _, target := range Targets {
				if _, ok := r.clients[target]; !ok {
					continue
				}
				if _, err := r.RunOnce(ctx, target, DefaultBatchSize); err != nil && ctx.Err() == nil {
					slog.Error("outbox run failed", "target", target, "error", err)
				}
			}
		}
	}
}
