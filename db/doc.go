// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages its schema.

# Drivers

Two drivers are supported through database/sql:

  - postgres: github.com/lib/pq (production, Supabase)
  - sqlite: modernc.org/sqlite (local runs and tests)

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

Migrations live in migrations/ and are embedded into the binary. CreateSchema
runs them through a goose provider:

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

The SQL is written to run unchanged on both dialects: TEXT ids generated in
Go, CURRENT_TIMESTAMP defaults, and expression-free unique indexes.

# Tables

  - categories: award categories (seeded), each bound to a nominee type
  - nominators: unique by email
  - nominees: person XOR company columns, unique by email
  - nominations: nominator + nominee + category, state, votes, approval metadata
  - bulk_upload_batches / bulk_upload_errors: CSV upload provenance
  - voters / votes: one vote per voter per category
  - sync_outbox: pending HubSpot and Loops deliveries

# Conflicts

Unique indexes back every duplicate rule. IsUniqueViolation recognizes the
driver errors (pq code 23505, SQLITE_CONSTRAINT_UNIQUE) so callers can turn
them into domain conflicts.
*/
package db
