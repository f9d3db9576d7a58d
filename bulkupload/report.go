// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bulkupload

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/worldstaffingawards/wsa2026/models"
)

var reportHeader = []string{"row", "field", "error_type", "message", "suggested_fix", "raw_data"}

// WriteErrorReport writes the stored errors of a batch as CSV, one line per
// error, ordered by row.
func (s *Service) WriteErrorReport(ctx context.Context, w io.Writer, batchID string) error {
	if _, err := s.store.GetBatch(ctx, batchID); err != nil {
		return err
	}
	errs, err := s.store.ListUploadErrors(ctx, batchID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, e := range errs {
		if err := cw.Write([]string{
			strconv.Itoa(e.RowNumber), e.Field, e.ErrorType, e.Message, e.SuggestedFix, e.RawData,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Report returns a batch together with its stored row errors.
func (s *Service) Report(ctx context.Context, batchID string) (models.BatchReport, error) {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return models.BatchReport{}, err
	}
	errs, err := s.store.ListUploadErrors(ctx, batchID)
	if err != nil {
		return models.BatchReport{}, err
	}
	return models.BatchReport{Batch: batch, Errors: errs}, nil
}
