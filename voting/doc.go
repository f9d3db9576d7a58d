// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting records public votes and serves the nominee directory.

A voter is identified by email and may vote once per category. The limit is
a unique index on votes(voter_id, category_id); a second vote in the same
category returns ErrAlreadyVoted. Only approved nominations accept votes.

The counter update is a single UPDATE ... SET votes = votes + 1 inside the
vote transaction. Every vote also queues the voter for Loops.

Public totals everywhere are votes + additional_votes. Clients that want
live numbers poll Counts.
*/
package voting
