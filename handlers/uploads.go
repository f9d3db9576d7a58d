// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/worldstaffingawards/wsa2026/approval"
	"github.com/worldstaffingawards/wsa2026/bulkupload"
	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/middleware"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
)

// MaxUploadBytes bounds the size of an uploaded CSV file.
const MaxUploadBytes = 10 << 20

// multipartSlack covers multipart framing and form fields around the file.
const multipartSlack = 1 << 20

const defaultBatchListLimit = 50

type UploadHandler struct {
	store    *store.Store
	uploads  *bulkupload.Service
	approval *approval.Service
	cfg      cliparse.Config
}

func NewUploadHandler(db *sql.DB, cfg cliparse.Config) *UploadHandler {
	st := store.New(db)
	return &UploadHandler{
		store:    st,
		uploads:  bulkupload.New(st, cfg.DefaultUploader),
		approval: approval.New(st, cfg.PublicBaseURL),
		cfg:      cfg,
	}
}

// Upload handles POST /api/admin/bulk-upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tooLarge := "File too large (max " + humanize.IBytes(MaxUploadBytes) + ")"
	if r.ContentLength > MaxUploadBytes+multipartSlack {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+multipartSlack)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}

	if !isCSV(header.Filename, header.Header.Get("Content-Type")) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Only CSV files are accepted")
		return
	}

	typ := r.FormValue("type")
	if typ != "" && typ != models.NomineePerson && typ != models.NomineeCompany {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type must be person or company")
		return
	}

	uploader := r.FormValue("uploader")
	if uploader == "" {
		uploader = adminIdentity(r, h.cfg.DefaultUploader)
	}

	resp, err := h.uploads.Upload(r.Context(), bulkupload.Upload{
		Filename:   header.Filename,
		Type:       typ,
		State:      r.FormValue("state"),
		UploadedBy: uploader,
		Body:       file,
	})
	if err != nil {
		writeError(w, err, "Batch not found")
		return
	}

	slog.Info("bulk upload processed",
		"batch_id", resp.BatchID,
		"file", header.Filename,
		"size", humanize.IBytes(uint64(header.Size)),
		"rows", resp.Summary.TotalRows,
		"created", resp.Summary.SuccessfulUploads)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// isCSV accepts a .csv extension or a text/csv content type.
func isCSV(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "text/csv"
}

// ListBatches handles GET /api/admin/bulk-upload/batches
func (h *UploadHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.store.ListBatches(r.Context(), queryInt(r, "limit", defaultBatchListLimit))
	if err != nil {
		writeError(w, err, "Batch not found")
		return
	}
	if batches == nil {
		batches = []models.UploadBatch{}
	}
	middleware.JSONResponse(w, http.StatusOK, batches)
}

// GetBatch handles GET /api/admin/bulk-upload/batches/{id}
func (h *UploadHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	report, err := h.uploads.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "Batch not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, report)
}

// ErrorsCSV handles GET /api/admin/bulk-upload/batches/{id}/errors.csv
func (h *UploadHandler) ErrorsCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetBatch(r.Context(), id); err != nil {
		writeError(w, err, "Batch not found")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="batch-`+id+`-errors.csv"`)
	if err := h.uploads.WriteErrorReport(r.Context(), w, id); err != nil {
		// Headers are already out; all that is left is to log.
		slog.Error("failed to write error report", "batch_id", id, "error", err)
	}
}

// ApproveBatch handles POST /api/admin/bulk-upload/batches/{id}/approve
func (h *UploadHandler) ApproveBatch(w http.ResponseWriter, r *http.Request) {
	var req models.DecisionRequest
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	resp, err := h.approval.ApproveBatch(r.Context(), chi.URLParam(r, "id"), approval.Decision{
		DecidedBy:  adminIdentity(r, h.cfg.DefaultUploader),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		writeError(w, err, "Batch not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
