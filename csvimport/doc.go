// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package csvimport reads bulk nomination uploads.

A file is a header row followed by up to MaxRows data rows. The header row is
normalized (trimmed, lowercased, spaces to underscores) and checked against the
required columns for the nominee type:

	person:  first_name, last_name, email, why_vote_for_me, category
	company: company_name, email, why_vote_for_me, category

Files with fewer than two lines, missing required columns, or too many rows
fail with ErrMalformedInput before any row is returned.

Each data row becomes a PersonRow or a CompanyRow, both satisfying Row. Blank
lines are skipped; Number keeps the row's position among data rows so error
reports point at the row the uploader sees.
*/
package csvimport
