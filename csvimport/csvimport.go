// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/worldstaffingawards/wsa2026/models"
)

// MaxRows is the largest number of data rows accepted in one upload.
const MaxRows = 1000

// ErrMalformedInput is returned when the file cannot be processed at all.
// No row of such a file is persisted.
var ErrMalformedInput = errors.New("malformed input")

var (
	PersonHeaders = []string{
		"first_name", "last_name", "job_title", "company_name", "email", "phone", "country",
		"linkedin", "bio", "achievements", "why_vote_for_me", "headshot_url", "category",
		"nominator_name", "nominator_email", "nominator_company", "nominator_job_title",
		"nominator_phone", "nominator_country",
	}
	CompanyHeaders = []string{
		"company_name", "website", "email", "phone", "country", "industry", "company_size",
		"linkedin", "bio", "achievements", "why_vote_for_me", "logo_url", "category",
		"nominator_name", "nominator_email", "nominator_company", "nominator_job_title",
		"nominator_phone", "nominator_country",
	}

	personRequired  = []string{"first_name", "last_name", "email", "why_vote_for_me", "category"}
	companyRequired = []string{"company_name", "email", "why_vote_for_me", "category"}
)

// RequiredHeaders lists the columns a file of the given nominee type must have.
func RequiredHeaders(typ string) []string {
	if typ == models.NomineeCompany {
		return companyRequired
	}
	return personRequired
}

// Headers lists the full template header row for a nominee type.
func Headers(typ string) []string {
	if typ == models.NomineeCompany {
		return CompanyHeaders
	}
	return PersonHeaders
}

// Parse reads a CSV upload and returns its rows in file order. typ may be
// empty, in which case the nominee type is detected from the header row.
func Parse(r io.Reader, typ string) ([]Row, string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(records) < 2 {
		return nil, "", fmt.Errorf("%w: file must contain a header row and at least one data row", ErrMalformedInput)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = normalizeHeader(h)
	}

	if typ == "" {
		typ = DetectType(header)
	}
	if typ != models.NomineePerson && typ != models.NomineeCompany {
		return nil, "", fmt.Errorf("%w: unknown nominee type %q", ErrMalformedInput, typ)
	}

	if missing := missingHeaders(header, RequiredHeaders(typ)); len(missing) > 0 {
		return nil, typ, fmt.Errorf("%w: missing required columns: %s", ErrMalformedInput, strings.Join(missing, ", "))
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		if len(rows) == MaxRows {
			return nil, typ, fmt.Errorf("%w: more than %d data rows", ErrMalformedInput, MaxRows)
		}
		raw := make(map[string]string, len(header))
		for j, h := range header {
			if h == "" {
				continue
			}
			if j < len(rec) {
				raw[h] = clean(rec[j])
			} else {
				raw[h] = ""
			}
		}
		rows = append(rows, NewRow(typ, i+1, raw))
	}
	if len(rows) == 0 {
		return nil, typ, fmt.Errorf("%w: file contains no data rows", ErrMalformedInput)
	}
	return rows, typ, nil
}

// DetectType picks the nominee type from a normalized header row.
func DetectType(header []string) string {
	has := map[string]bool{}
	for _, h := range header {
		has[h] = true
	}
	if has["first_name"] || has["last_name"] {
		return models.NomineePerson
	}
	if has["company_name"] || has["website"] || has["logo_url"] {
		return models.NomineeCompany
	}
	return models.NomineePerson
}

func missingHeaders(header, required []string) []string {
	present := map[string]bool{}
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, r := range required {
		if !present[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = clean(h)
	h = strings.ToLower(h)
	h = strings.Join(strings.Fields(h), "_")
	return strings.ReplaceAll(h, "-", "_")
}

func clean(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
