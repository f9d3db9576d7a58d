// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnvFile seeds the environment from a .env file, then ParseFlags returns
a Config with every setting resolved:

	_ = cliparse.LoadEnvFile(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type (postgres or sqlite)
	-base-url       Public site base URL
	-sync-interval  Background outbox sync interval (0 disables)
	-admin-key      Admin API key
	-cron-secret    Sync runner secret

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	PUBLIC_BASE_URL → -base-url
	SYNC_INTERVAL   → -sync-interval
	ADMIN_KEY       → -admin-key
	CRON_SECRET     → -cron-secret

Integration credentials are read from the environment only: HUBSPOT_TOKEN,
HUBSPOT_API_URL, LOOPS_API_KEY, LOOPS_API_URL, DEFAULT_UPLOADER and
IP_HASH_SALT.

CLI flags take precedence over environment variables, and variables already
set in the environment take precedence over .env.

# Validation

ParseFlags returns an error when:

  - ADMIN_KEY is missing
  - DATABASE_TYPE is not postgres or sqlite
  - DATABASE_URL is missing for postgres (sqlite defaults to wsa2026.db)
  - PORT or SYNC_INTERVAL cannot be parsed
*/
package cliparse
