// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Logging is mounted once on the router:

	r.Use(middleware.Logging)

Logs request start (method, path, remote) and completion (status,
duration_ms). WithLogging wraps a single HandlerFunc the same way.

# Access Control

Admin routes require the shared admin key in X-Admin-Key:

	r.With(middleware.RequireAdmin(cfg.AdminKey))

Sync run routes require CRON_SECRET, either as X-Cron-Secret or as
"Authorization: Bearer <secret>". An unset secret rejects every call.

Both answer 401 with a JSON error body.

# CORS Middleware

Reflects the request Origin (or "*") and allows GET, POST, PATCH, DELETE,
OPTIONS with Content-Type, Authorization, X-Admin-Key and X-Cron-Secret.
Preflight requests are answered directly.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Nomination not found")
	middleware.ErrorWithDetails(w, http.StatusBadRequest, "Invalid nomination", rowErrors)

Error bodies are {"error": "...", "details": ...}; details is omitted when
empty.

# Client IP

GetClientIP checks X-Forwarded-For (first entry), then X-Real-IP, then
RemoteAddr with the port stripped. The voting handler hashes it before
storage.
*/
package middleware
