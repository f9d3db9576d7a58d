// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the World Staffing Awards 2026 API
server.

The server takes nominations from a public form and from admin CSV bulk
uploads, holds them in an approval queue, publishes approved nominees with a
live profile URL, records public votes and syncs nominees and voters to
HubSpot and Loops through a transactional outbox.

# Starting the Server

Configuration comes from flags, then the environment, then a local .env file:

	DATABASE_URL=postgres://... ADMIN_KEY=... go run .

Or against a local SQLite file:

	go run . -t sqlite -d wsa2026.db -admin-key dev

# Configuration

Required settings:

  - ADMIN_KEY (-admin-key): shared key for /api/admin routes
  - DATABASE_URL (-d): connection string (optional for sqlite)

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - PUBLIC_BASE_URL (-base-url): prefix for live nominee URLs
  - CRON_SECRET (-cron-secret): secret for /api/sync/{target}/run
  - SYNC_INTERVAL (-sync-interval): background outbox drain interval
  - HUBSPOT_TOKEN, HUBSPOT_API_URL: HubSpot private app token and base URL
  - LOOPS_API_KEY, LOOPS_API_URL: Loops API key and base URL
  - DEFAULT_UPLOADER: identity used when no uploader or admin is named
  - IP_HASH_SALT: salt for hashed voter IPs (defaults to ADMIN_KEY)

# Architecture

  - csvimport: CSV parsing, header detection and templates
  - validation: per-row field, category and duplicate checks
  - bulkupload: upload batches and form submissions
  - approval: state transitions, slugs, sync enqueue
  - voting: votes, directory and counts
  - outbox: HubSpot and Loops clients and the sync runner
  - store: SQL repository
  - handlers, router, middleware: HTTP surface
  - db: connections and goose migrations
  - cliparse: configuration parsing
  - cmd/wsactl: admin command line

See package documentation for each component.
*/
package main
