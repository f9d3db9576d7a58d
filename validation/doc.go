// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validation checks parsed upload rows before anything is written.

Each row runs through the same ordered checks:

 1. required columns for the nominee type (one missing_required error per column)
 2. formats: email addresses, http(s) URLs, LinkedIn profile hosts
 3. length limits on every column
 4. category exists and accepts the row's nominee type
 5. email repeated earlier in the same file (the later row is flagged)
 6. email already registered to a nominee (case-insensitive)

Format checks skip empty values so a missing column is reported once. The
LinkedIn check accepts linkedin.com and the example.com family used by the
upload templates.

Rows never fail each other; Validate returns every error it finds and the
rows that passed, in file order.
*/
package validation
