// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"time"

	"github.com/worldstaffingawards/wsa2026/auth"
	"github.com/worldstaffingawards/wsa2026/models"
)

func (s *Store) EnqueueOutbox(ctx context.Context, e *models.OutboxEntry) error {
	e.ID = auth.NewID()
	e.Status = models.OutboxPending
	e.CreatedAt = time.Now().UTC()
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO sync_outbox (id, target, event, nomination_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Target, e.Event, e.NominationID, e.Payload, e.Status, e.CreatedAt)
	return mapErr(err)
}

// PendingOutbox lists the oldest pending rows for a target.
func (s *Store) PendingOutbox(ctx context.Context, target string, limit int) ([]models.OutboxEntry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, target, event, nomination_id, payload, status, attempts, last_error, created_at, sent_at
		FROM sync_outbox
		WHERE target = $1 AND status = 'pending'
		ORDER BY created_at, id
		LIMIT $2
	`, target, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.OutboxEntry{}
	for rows.Next() {
		var e models.OutboxEntry
		if err := rows.Scan(&e.ID, &e.Target, &e.Event, &e.NominationID, &e.Payload, &e.Status,
			&e.Attempts, &e.LastError, &e.CreatedAt, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClaimOutbox marks a pending row as processing. Returns false when another
// runner claimed it first.
func (s *Store) ClaimOutbox(ctx context.Context, id string) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE sync_outbox SET status = 'processing', attempts = attempts + 1, claimed_at = $1
		WHERE id = $2 AND status = 'pending'
	`, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (s *Store) MarkOutboxSent(ctx context.Context, id string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE sync_outbox SET status = 'sent', sent_at = $1, last_error = NULL, claimed_at = NULL WHERE id = $2
	`, time.Now().UTC(), id)
	return err
}

func (s *Store) MarkOutboxFailed(ctx context.Context, id, reason string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE sync_outbox SET status = 'failed', last_error = $1, claimed_at = NULL WHERE id = $2
	`, reason, id)
	return err
}

// ReleaseOutbox returns a claimed row to pending, keeping the error.
func (s *Store) ReleaseOutbox(ctx context.Context, id, reason string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE sync_outbox SET status = 'pending', last_error = $1, claimed_at = NULL WHERE id = $2
	`, reason, id)
	return err
}

// ReleaseStaleOutbox returns rows claimed before cutoff and never settled,
// such as those held by a process that crashed mid-delivery, to pending.
func (s *Store) ReleaseStaleOutbox(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE sync_outbox
		SET status = 'pending', claimed_at = NULL,
		    last_error = COALESCE(last_error, 'delivery interrupted')
		WHERE status = 'processing' AND (claimed_at IS NULL OR claimed_at < $1)
	`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// OutstandingOutbox counts rows of a nomination not yet delivered.
func (s *Store) OutstandingOutbox(ctx context.Context, nominationID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM sync_outbox
		WHERE nomination_id = $1 AND status IN ('pending', 'processing')
	`, nominationID).Scan(&n)
	return n, err
}
