// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/middleware"
	"github.com/worldstaffingawards/wsa2026/outbox"
	"github.com/worldstaffingawards/wsa2026/store"
)

type SyncHandler struct {
	runner *outbox.Runner
}

func NewSyncHandler(db *sql.DB, cfg cliparse.Config) *SyncHandler {
	clients := outbox.Clients(cfg.HubSpotBaseURL, cfg.HubSpotToken, cfg.LoopsBaseURL, cfg.LoopsAPIKey)
	return NewSyncHandlerWithClients(db, clients)
}

// NewSyncHandlerWithClients builds a sync handler over explicit delivery
// clients, keyed by target.
func NewSyncHandlerWithClients(db *sql.DB, clients map[string]outbox.Client) *SyncHandler {
	return &SyncHandler{runner: outbox.NewRunner(store.New(db), clients)}
}

// Run handles POST /api/sync/{target}/run
func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	resp, err := h.runner.RunOnce(r.Context(), chi.URLParam(r, "target"), queryInt(r, "limit", outbox.DefaultBatchSize))
	if err != nil {
		writeError(w, err, "Unknown target")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
