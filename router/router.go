// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/handlers"
	"github.com/worldstaffingawards/wsa2026/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.Logging)

	// Initialize handlers
	public := handlers.NewPublicHandler(db, cfg)
	nominations := handlers.NewNominationHandler(db, cfg)
	uploads := handlers.NewUploadHandler(db, cfg)
	sync := handlers.NewSyncHandler(db, cfg)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public site
	r.Get("/api/categories", public.Categories)
	r.Post("/api/nominations", nominations.Submit)
	r.Get("/api/nominees", public.Directory)
	r.Get("/api/nominees/{slug}", public.Nominee)
	r.Post("/api/votes", public.CastVote)
	r.Get("/api/votes/counts", public.Counts)
	r.Get("/api/templates/{type}.csv", public.Template)

	// Admin operations
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(cfg.AdminKey))

		r.Post("/bulk-upload", uploads.Upload)
		r.Get("/bulk-upload/batches", uploads.ListBatches)
		r.Get("/bulk-upload/batches/{id}", uploads.GetBatch)
		r.Get("/bulk-upload/batches/{id}/errors.csv", uploads.ErrorsCSV)
		r.Post("/bulk-upload/batches/{id}/approve", uploads.ApproveBatch)

		r.Get("/nominations", nominations.List)
		r.Patch("/nominations/{id}", nominations.Update)
		r.Delete("/nominations/{id}", nominations.Delete)
		r.Post("/nominations/{id}/approve", nominations.Approve)
		r.Post("/nominations/{id}/reject", nominations.Reject)

		r.Get("/stats", nominations.Stats)
	})

	// Outbox sync runner
	r.With(middleware.RequireCron(cfg.CronSecret)).Post("/api/sync/{target}/run", sync.Run)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("World Staffing Awards 2026 API v1"))
	})

	return r
}
