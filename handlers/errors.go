// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/worldstaffingawards/wsa2026/approval"
	"github.com/worldstaffingawards/wsa2026/bulkupload"
	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/middleware"
	"github.com/worldstaffingawards/wsa2026/outbox"
	"github.com/worldstaffingawards/wsa2026/store"
	"github.com/worldstaffingawards/wsa2026/voting"
)

// writeError maps service errors onto HTTP statuses. notFound is the
// message used for store.ErrNotFound.
func writeError(w http.ResponseWriter, err error, notFound string) {
	var formErr *bulkupload.FormError
	switch {
	case errors.As(err, &formErr):
		middleware.ErrorWithDetails(w, http.StatusBadRequest, "Invalid nomination", formErr.Errors)
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, notFound)
	case errors.Is(err, csvimport.ErrMalformedInput),
		errors.Is(err, bulkupload.ErrInvalidState),
		errors.Is(err, approval.ErrRejectionReasonRequired),
		errors.Is(err, voting.ErrInvalidVoter):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, approval.ErrInvalidTransition),
		errors.Is(err, voting.ErrAlreadyVoted),
		errors.Is(err, voting.ErrNotVotable),
		errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, outbox.ErrUnknownTarget):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, outbox.ErrNotConfigured):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// queryInt reads a non-negative integer query parameter, returning def when
// it is absent or invalid.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// adminIdentity names the admin acting on a request for audit fields.
func adminIdentity(r *http.Request, fallback string) string {
	if v := r.Header.Get("X-Admin-Email"); v != "" {
		return v
	}
	return fallback
}
