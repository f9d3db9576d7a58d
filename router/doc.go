// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the World Staffing Awards 2026 API.

# Route Registration

NewRouter creates a chi router with recovery, CORS and request logging:

	r := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Public site:

	GET  /api/categories            - Award categories
	POST /api/nominations           - Form nomination (lands as submitted)
	GET  /api/nominees              - Approved nominee directory
	GET  /api/nominees/{slug}       - Nominee profile
	POST /api/votes                 - Cast a vote
	GET  /api/votes/counts          - Public totals for polling
	GET  /api/templates/{type}.csv  - Bulk upload template

Admin (requires X-Admin-Key):

	POST   /api/admin/bulk-upload                          - CSV upload
	GET    /api/admin/bulk-upload/batches                  - Recent batches
	GET    /api/admin/bulk-upload/batches/{id}             - Batch with row errors
	GET    /api/admin/bulk-upload/batches/{id}/errors.csv  - Error report
	POST   /api/admin/bulk-upload/batches/{id}/approve     - Approve a whole batch
	GET    /api/admin/nominations                          - Filtered list
	PATCH  /api/admin/nominations/{id}                     - Edit or change state
	DELETE /api/admin/nominations/{id}                     - Delete
	POST   /api/admin/nominations/{id}/approve             - Approve
	POST   /api/admin/nominations/{id}/reject              - Reject
	GET    /api/admin/stats                                - Aggregates

Sync (requires X-Cron-Secret or a bearer token):

	POST /api/sync/{target}/run - Drain the hubspot or loops outbox
*/
package router
