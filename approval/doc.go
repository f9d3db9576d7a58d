// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package approval decides draft and submitted nominations.

Only two transitions exist:

	draft | submitted -> approved
	draft | submitted -> rejected

Both are final. Anything else returns ErrInvalidTransition.

On approval the nominee's display name is slugified into the live slug
(ada-lovelace, then ada-lovelace-2 on collision), the live URL becomes
PUBLIC_BASE_URL + "/nominee/" + slug, sync_pending is set, and one outbox row
per sync target is written in the same transaction. Rejection requires a
reason and queues nothing.
*/
package approval
