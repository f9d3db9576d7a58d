// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package outbox delivers approved nominees and voters to HubSpot and Loops.

Producers call Enqueue inside the same transaction as the change that needs
syncing. Nothing talks to the external APIs on the request path.

# Delivery

Runner.RunOnce claims pending rows for one target with a conditional update
(pending to processing), so two runners never send the same row. Each row
ends as sent or failed. A row that fails because the runner is shutting down
goes back to pending.

Both clients create first and fall back to an update when the API answers
409 (contact already exists):

	HubSpot: POST  /crm/v3/objects/contacts
	         PATCH /crm/v3/objects/contacts/{email}?idProperty=email
	Loops:   POST  /api/v1/contacts/create
	         PUT   /api/v1/contacts/update

When the last outstanding row of a nomination is settled, its sync_pending
flag is cleared.

Runner.Run repeats RunOnce for every configured target on a ticker until the
context is cancelled.
*/
package outbox
