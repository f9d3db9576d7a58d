// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bulkupload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
	"github.com/worldstaffingawards/wsa2026/validation"
)

var ErrInvalidState = errors.New("uploaded nominations must be draft or submitted")

// Upload describes one CSV file handed to the batch writer.
type Upload struct {
	Filename   string
	Type       string // person, company, or empty to detect from headers
	State      string // draft (default) or submitted
	UploadedBy string
	Body       io.Reader
}

type Service struct {
	store           *store.Store
	validator       *validation.Validator
	defaultUploader string
}

func New(st *store.Store, defaultUploader string) *Service {
	return &Service{
		store:           st,
		validator:       validation.New(st),
		defaultUploader: defaultUploader,
	}
}

// Upload parses, validates and writes every row of a CSV file. A malformed
// file returns csvimport.ErrMalformedInput before a batch exists. Row
// failures never stop the batch; they are stored as upload errors.
func (s *Service) Upload(ctx context.Context, u Upload) (models.UploadResponse, error) {
	state := u.State
	if state == "" {
		state = models.StateDraft
	}
	if state != models.StateDraft && state != models.StateSubmitted {
		return models.UploadResponse{}, ErrInvalidState
	}
	if u.UploadedBy == "" {
		u.UploadedBy = s.defaultUploader
	}

	rows, typ, err := csvimport.Parse(u.Body, u.Type)
	if err != nil {
		return models.UploadResponse{}, err
	}

	batch := models.UploadBatch{
		Filename:    u.Filename,
		NomineeType: typ,
		TotalRows:   len(rows),
		UploadedBy:  u.UploadedBy,
	}
	if err := s.store.CreateBatch(ctx, &batch); err != nil {
		return models.UploadResponse{}, fmt.Errorf("create batch: %w", err)
	}
	slog.Info("bulk upload started", "batch_id", batch.ID, "filename", u.Filename, "type", typ, "rows", len(rows))

	result, err := s.validator.Validate(ctx, rows)
	if err != nil {
		batch.Status = models.BatchFailed
		if ferr := s.store.FinishBatch(ctx, &batch); ferr != nil {
			slog.Error("failed to mark batch failed", "batch_id", batch.ID, "error", ferr)
		}
		return models.UploadResponse{}, fmt.Errorf("validate rows: %w", err)
	}

	summary := models.UploadSummary{
		TotalRows:        len(rows),
		ValidationErrors: result.InvalidRows,
		DuplicatesFound:  result.Duplicates,
	}
	rowErrors := result.Errors

	for _, row := range result.Valid {
		_, err := s.writeRow(ctx, row, state, models.SourceBulk, &batch)
		if err == nil {
			summary.SuccessfulUploads++
			continue
		}

		summary.FailedUploads++
		f := row.Common()
		rowErr := validation.RowError{
			Row:          f.Number,
			Type:         models.ErrorProcessing,
			Message:      fmt.Sprintf("Could not save row: %v", err),
			SuggestedFix: "Retry the upload for this row; contact support if it keeps failing",
			Raw:          f.Raw,
		}
		if errors.Is(err, store.ErrConflict) {
			summary.DuplicatesFound++
			rowErr.Field = "email"
			rowErr.Type = models.ErrorDuplicate
			rowErr.Message = fmt.Sprintf("A nominee with email %s already exists", f.Email)
			rowErr.SuggestedFix = "Remove the row; this nominee was registered while the file was processing"
		}
		slog.Warn("failed to write upload row", "batch_id", batch.ID, "row", f.Number, "error", err)
		rowErrors = append(rowErrors, rowErr)
	}

	for _, re := range rowErrors {
		if err := s.store.AddUploadError(ctx, uploadError(batch.ID, re)); err != nil {
			slog.Error("failed to store upload error", "batch_id", batch.ID, "row", re.Row, "error", err)
		}
	}

	batch.SuccessfulRows = summary.SuccessfulUploads
	batch.FailedRows = summary.ValidationErrors + summary.FailedUploads
	if state == models.StateDraft {
		batch.DraftRows = summary.SuccessfulUploads
	}
	batch.Status = batchStatus(batch.SuccessfulRows, batch.FailedRows)
	if err := s.store.FinishBatch(ctx, &batch); err != nil {
		return models.UploadResponse{}, fmt.Errorf("finish batch: %w", err)
	}

	slog.Info("bulk upload finished",
		"batch_id", batch.ID,
		"status", batch.Status,
		"successful", summary.SuccessfulUploads,
		"validation_errors", summary.ValidationErrors,
		"failed", summary.FailedUploads,
	)

	return models.UploadResponse{
		Success:   summary.SuccessfulUploads > 0,
		BatchID:   batch.ID,
		Summary:   summary,
		NextSteps: nextSteps(batch, summary, state),
	}, nil
}

// writeRow stores the nominator, nominee and nomination of one row inside a
// single transaction so a failed row leaves nothing behind.
func (s *Service) writeRow(ctx context.Context, row csvimport.Row, state, source string, batch *models.UploadBatch) (string, error) {
	f := row.Common()
	nominator := f.Nominator()
	if nominator.Email == "" {
		nominator.Email = s.defaultUploader
		if nominator.Name == "" {
			nominator.Name = "World Staffing Awards"
		}
	}

	var nominationID string
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		nominatorID, err := tx.FindOrCreateNominator(ctx, nominator)
		if err != nil {
			return fmt.Errorf("nominator: %w", err)
		}

		nominee := row.Nominee()
		if err := tx.CreateNominee(ctx, &nominee); err != nil {
			return fmt.Errorf("nominee: %w", err)
		}

		nomination := models.Nomination{
			NominatorID: nominatorID,
			NomineeID:   nominee.ID,
			CategoryID:  f.Category,
			State:       state,
			WhyVote:     f.WhyVote,
			Source:      source,
		}
		if batch != nil {
			number := f.Number
			nomination.UploadBatchID = &batch.ID
			nomination.UploadRowNumber = &number
			nomination.UploadedBy = &batch.UploadedBy
		}
		if err := tx.CreateNomination(ctx, &nomination); err != nil {
			return fmt.Errorf("nomination: %w", err)
		}
		nominationID = nomination.ID
		return nil
	})
	return nominationID, err
}

func uploadError(batchID string, re validation.RowError) *models.UploadError {
	raw, err := json.Marshal(re.Raw)
	if err != nil {
		raw = nil
	}
	return &models.UploadError{
		BatchID:      batchID,
		RowNumber:    re.Row,
		Field:        re.Field,
		ErrorType:    re.Type,
		Message:      re.Message,
		SuggestedFix: re.SuggestedFix,
		RawData:      string(raw),
	}
}

func batchStatus(successful, failed int) string {
	switch {
	case successful == 0:
		return models.BatchFailed
	case failed > 0:
		return models.BatchCompletedWithErrors
	}
	return models.BatchCompleted
}

func nextSteps(b models.UploadBatch, sum models.UploadSummary, state string) []string {
	var steps []string
	if sum.SuccessfulUploads > 0 {
		steps = append(steps, fmt.Sprintf("Review the %d %s nominations in the admin console", sum.SuccessfulUploads, state))
		steps = append(steps, fmt.Sprintf("Approve them individually or all at once with POST /api/admin/bulk-upload/batches/%s/approve", b.ID))
	}
	if sum.ValidationErrors+sum.FailedUploads > 0 {
		steps = append(steps, fmt.Sprintf("Download the error report from /api/admin/bulk-upload/batches/%s/errors.csv", b.ID))
		steps = append(steps, "Fix the listed rows and upload them again in a new file")
	}
	if len(steps) == 0 {
		steps = append(steps, "No rows were imported; check the file against the CSV template")
	}
	return steps
}
