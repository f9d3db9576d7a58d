// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the World Staffing Awards
2026 API.

# Handler Types

Each handler is a struct built from the database and config:

  - PublicHandler: categories, nominee directory and profiles, voting, templates
  - NominationHandler: form submissions and the admin approval queue
  - UploadHandler: CSV bulk upload, batch reports and batch approval
  - SyncHandler: drains the HubSpot and Loops outbox on demand

Handlers are created via constructor functions that accept *sql.DB and Config:

	uploads := handlers.NewUploadHandler(db, cfg)

Business rules live in the service packages (bulkupload, approval, voting,
outbox); handlers decode requests, call a service and map its errors.

# Nomination Lifecycle

Nominations move draft → submitted → approved or rejected. Form submissions
start as submitted, bulk uploads as draft unless the upload asks for
submitted. Approval assigns the live slug and URL and queues the nominee for
CRM and email sync:

	POST /api/admin/nominations/{id}/approve → Approve
	POST /api/admin/nominations/{id}/reject  → Reject (reason required)
	PATCH /api/admin/nominations/{id}        → Update (fields and/or state)

The acting admin is read from X-Admin-Email and defaults to the configured
uploader.

# Bulk Upload

	POST /api/admin/bulk-upload (multipart: file, type, state, uploader)

Files over 10 MiB or without a .csv name or text/csv type are refused before
parsing. A malformed file is a 400 with no batch; row problems are reported
in the summary and stored for the errors.csv report.

# Error Mapping

	store.ErrNotFound                       → 404
	conflicts, finished states, repeat vote → 409
	malformed input and invalid fields      → 400
	outbox target without credentials       → 503
*/
package handlers
