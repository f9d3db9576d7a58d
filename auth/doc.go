// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers and credential checks.

# Identifiers

All primary keys are random UUIDs:

	id := auth.NewID()

# Admin Key

Admin endpoints require the X-Admin-Key header to equal the configured
ADMIN_KEY. Comparison is constant time:

	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey); err != nil {
		// 401
	}

# Cron Secret

Sync runner endpoints accept CRON_SECRET either raw or as a bearer token.

# Privacy

Voter IP addresses are stored only as a salted HMAC prefix (HashIP).
Emails are compared after NormalizeEmail.
*/
package auth
