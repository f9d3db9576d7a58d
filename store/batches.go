// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"time"

	"github.com/worldstaffingawards/wsa2026/auth"
	"github.com/worldstaffingawards/wsa2026/models"
)

const batchColumns = `id, filename, nominee_type, total_rows, successful_rows, failed_rows,
	draft_rows, status, uploaded_by, created_at, completed_at`

func scanBatch(row scanner) (models.UploadBatch, error) {
	var b models.UploadBatch
	err := row.Scan(&b.ID, &b.Filename, &b.NomineeType, &b.TotalRows, &b.SuccessfulRows,
		&b.FailedRows, &b.DraftRows, &b.Status, &b.UploadedBy, &b.CreatedAt, &b.CompletedAt)
	return b, err
}

func (s *Store) CreateBatch(ctx context.Context, b *models.UploadBatch) error {
	b.ID = auth.NewID()
	b.CreatedAt = time.Now().UTC()
	if b.Status == "" {
		b.Status = models.BatchProcessing
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO bulk_upload_batches (id, filename, nominee_type, total_rows, status, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.Filename, b.NomineeType, b.TotalRows, b.Status, b.UploadedBy, b.CreatedAt)
	return mapErr(err)
}

// FinishBatch stores the final counts and status of a batch.
func (s *Store) FinishBatch(ctx context.Context, b *models.UploadBatch) error {
	now := time.Now().UTC()
	b.CompletedAt = &now
	res, err := s.q.ExecContext(ctx, `
		UPDATE bulk_upload_batches
		SET total_rows = $1, successful_rows = $2, failed_rows = $3, draft_rows = $4,
			status = $5, completed_at = $6
		WHERE id = $7
	`, b.TotalRows, b.SuccessfulRows, b.FailedRows, b.DraftRows, b.Status, now, b.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (s *Store) GetBatch(ctx context.Context, id string) (models.UploadBatch, error) {
	b, err := scanBatch(s.q.QueryRowContext(ctx, `SELECT `+batchColumns+` FROM bulk_upload_batches WHERE id = $1`, id))
	return b, mapErr(err)
}

func (s *Store) ListBatches(ctx context.Context, limit int) ([]models.UploadBatch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+batchColumns+`
		FROM bulk_upload_batches
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := []models.UploadBatch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (s *Store) AddUploadError(ctx context.Context, e *models.UploadError) error {
	e.ID = auth.NewID()
	e.CreatedAt = time.Now().UTC()
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO bulk_upload_errors (id, batch_id, row_num, field, error_type, message, suggested_fix, raw_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.BatchID, e.RowNumber, e.Field, e.ErrorType, e.Message, e.SuggestedFix, e.RawData, e.CreatedAt)
	return mapErr(err)
}

func (s *Store) ListUploadErrors(ctx context.Context, batchID string) ([]models.UploadError, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, batch_id, row_num, field, error_type, message, suggested_fix, raw_data, created_at
		FROM bulk_upload_errors
		WHERE batch_id = $1
		ORDER BY row_num, created_at, field
	`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	errs := []models.UploadError{}
	for rows.Next() {
		var e models.UploadError
		if err := rows.Scan(&e.ID, &e.BatchID, &e.RowNumber, &e.Field, &e.ErrorType,
			&e.Message, &e.SuggestedFix, &e.RawData, &e.CreatedAt); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}
