// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/middleware"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
	"github.com/worldstaffingawards/wsa2026/voting"
)

const defaultDirectoryLimit = 200

type PublicHandler struct {
	store  *store.Store
	voting *voting.Service
	cfg    cliparse.Config
}

func NewPublicHandler(db *sql.DB, cfg cliparse.Config) *PublicHandler {
	st := store.New(db)
	return &PublicHandler{
		store:  st,
		voting: voting.New(st, cfg.IPHashSalt),
		cfg:    cfg,
	}
}

// Categories handles GET /api/categories
func (h *PublicHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, err, "Category not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, categories)
}

// Directory handles GET /api/nominees
func (h *PublicHandler) Directory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.voting.Directory(r.Context(), store.DirectoryFilter{
		CategoryID: q.Get("category"),
		Type:       q.Get("type"),
		Search:     q.Get("q"),
		Limit:      queryInt(r, "limit", defaultDirectoryLimit),
	})
	if err != nil {
		writeError(w, err, "Nominee not found")
		return
	}
	if entries == nil {
		entries = []models.DirectoryEntry{}
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}

// Nominee handles GET /api/nominees/{slug}
func (h *PublicHandler) Nominee(w http.ResponseWriter, r *http.Request) {
	profile, err := h.voting.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err, "Nominee not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, profile)
}

// CastVote handles POST /api/votes
func (h *PublicHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.NominationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nominationId is required")
		return
	}

	resp, err := h.voting.Cast(r.Context(), voting.Ballot{
		NominationID: req.NominationID,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		JobTitle:     req.JobTitle,
		LinkedIn:     req.LinkedIn,
		IP:           middleware.GetClientIP(r),
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		writeError(w, err, "Nomination not found")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// Counts handles GET /api/votes/counts
func (h *PublicHandler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.voting.Counts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err, "Category not found")
		return
	}
	if counts == nil {
		counts = []models.VoteCount{}
	}
	middleware.JSONResponse(w, http.StatusOK, counts)
}

// Template handles GET /api/templates/{type}.csv
func (h *PublicHandler) Template(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	if typ != models.NomineePerson && typ != models.NomineeCompany {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown template")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="wsa-2026-`+typ+`-template.csv"`)
	if err := csvimport.WriteTemplate(w, typ); err != nil {
		slog.Error("failed to write template", "type", typ, "error", err)
	}
}
