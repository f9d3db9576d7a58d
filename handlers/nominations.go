// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/worldstaffingawards/wsa2026/approval"
	"github.com/worldstaffingawards/wsa2026/bulkupload"
	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/middleware"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
)

const defaultNominationListLimit = 100

type NominationHandler struct {
	store    *store.Store
	forms    *bulkupload.Service
	approval *approval.Service
	cfg      cliparse.Config
}

func NewNominationHandler(db *sql.DB, cfg cliparse.Config) *NominationHandler {
	st := store.New(db)
	return &NominationHandler{
		store:    st,
		forms:    bulkupload.New(st, cfg.DefaultUploader),
		approval: approval.New(st, cfg.PublicBaseURL),
		cfg:      cfg,
	}
}

// Submit handles POST /api/nominations
func (h *NominationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.NominationFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.forms.SubmitForm(r.Context(), req)
	if err != nil {
		writeError(w, err, "Category not found")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

func validState(s string) bool {
	switch s {
	case models.StateDraft, models.StateSubmitted, models.StateApproved, models.StateRejected:
		return true
	}
	return false
}

// List handles GET /api/admin/nominations
func (h *NominationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := q.Get("state")
	if state != "" && !validState(state) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "state must be draft, submitted, approved or rejected")
		return
	}

	list, err := h.store.ListNominations(r.Context(), store.NominationFilter{
		State:      state,
		CategoryID: q.Get("category"),
		BatchID:    q.Get("batch"),
		Type:       q.Get("type"),
		Search:     q.Get("q"),
		Limit:      queryInt(r, "limit", defaultNominationListLimit),
		Offset:     queryInt(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err, "Nomination not found")
		return
	}
	if list == nil {
		list = []models.NominationDetail{}
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// Update handles PATCH /api/admin/nominations/{id}
func (h *NominationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateNominationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.AdditionalVotes != nil && *req.AdditionalVotes < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "additionalVotes must not be negative")
		return
	}
	if req.State != nil && *req.State != models.StateApproved && *req.State != models.StateRejected {
		middleware.ErrorResponse(w, http.StatusBadRequest, "state can only be changed to approved or rejected")
		return
	}

	ctx := r.Context()
	current, err := h.store.GetNomination(ctx, id)
	if err != nil {
		writeError(w, err, "Nomination not found")
		return
	}

	if req.State != nil && current.State != models.StateDraft && current.State != models.StateSubmitted {
		middleware.ErrorResponse(w, http.StatusConflict, "Nomination is already "+current.State)
		return
	}
	if req.State != nil && *req.State == models.StateRejected &&
		(req.RejectionReason == nil || strings.TrimSpace(*req.RejectionReason) == "") {
		writeError(w, approval.ErrRejectionReasonRequired, "Nomination not found")
		return
	}

	if req.CategoryID != nil {
		typ, err := h.store.CategoryType(ctx, *req.CategoryID)
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown category")
			return
		}
		if err != nil {
			writeError(w, err, "Nomination not found")
			return
		}
		if typ != current.Nominee.Type {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Category does not accept "+current.Nominee.Type+" nominees")
			return
		}
	}

	// field edits and the decision commit together or not at all
	err = h.store.InTx(ctx, func(tx *store.Store) error {
		if req.AdminNotes != nil || req.AdditionalVotes != nil || req.CategoryID != nil {
			err := tx.UpdateNomination(ctx, id, store.NominationUpdate{
				AdminNotes:      req.AdminNotes,
				AdditionalVotes: req.AdditionalVotes,
				CategoryID:      req.CategoryID,
			})
			if err != nil {
				return err
			}
		}
		if req.State == nil {
			return nil
		}

		gate := h.approval.WithStore(tx)
		d := approval.Decision{DecidedBy: adminIdentity(r, h.cfg.DefaultUploader)}
		if req.RejectionReason != nil {
			d.RejectionReason = *req.RejectionReason
		}
		var err error
		if *req.State == models.StateApproved {
			_, err = gate.Approve(ctx, id, d)
		} else {
			_, err = gate.Reject(ctx, id, d)
		}
		return err
	})
	if err != nil {
		writeError(w, err, "Nomination not found")
		return
	}

	updated, err := h.store.GetNomination(ctx, id)
	if err != nil {
		writeError(w, err, "Nomination not found")
		return
	}
	slog.Info("nomination updated", "nomination_id", id, "state", updated.State)
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/nominations/{id}
func (h *NominationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteNomination(r.Context(), id); err != nil {
		writeError(w, err, "Nomination not found")
		return
	}
	slog.Info("nomination deleted", "nomination_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Approve handles POST /api/admin/nominations/{id}/approve
func (h *NominationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.approval.Approve)
}

// Reject handles POST /api/admin/nominations/{id}/reject
func (h *NominationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.approval.Reject)
}

type decideFunc func(ctx context.Context, id string, d approval.Decision) (models.NominationDetail, error)

func (h *NominationHandler) decide(w http.ResponseWriter, r *http.Request, fn decideFunc) {
	var req models.DecisionRequest
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	detail, err := fn(r.Context(), chi.URLParam(r, "id"), approval.Decision{
		DecidedBy:       adminIdentity(r, h.cfg.DefaultUploader),
		AdminNotes:      req.AdminNotes,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		writeError(w, err, "Nomination not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// Stats handles GET /api/admin/stats
func (h *NominationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, err, "Not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}
