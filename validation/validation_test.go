// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
)

type fakeLookup struct {
	categories map[string]string
	emails     map[string]bool
	calls      int
	err        error
}

func (f *fakeLookup) CategoryType(ctx context.Context, id string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	typ, ok := f.categories[id]
	if !ok {
		return "", store.ErrNotFound
	}
	return typ, nil
}

func (f *fakeLookup) NomineeEmailExists(ctx context.Context, email string) (bool, error) {
	return f.emails[strings.ToLower(email)], nil
}

func newLookup() *fakeLookup {
	return &fakeLookup{
		categories: map[string]string{
			"top-recruiter":           models.NomineePerson,
			"best-recruitment-agency": models.NomineeCompany,
		},
		emails: map[string]bool{},
	}
}

func personRow(n int, values map[string]string) csvimport.Row {
	raw := map[string]string{
		"first_name":      "Ada",
		"last_name":       "Lovelace",
		"email":           "ada@example.com",
		"why_vote_for_me": "Outstanding recruiter",
		"category":        "top-recruiter",
	}
	for k, v := range values {
		raw[k] = v
	}
	return csvimport.NewRow(models.NomineePerson, n, raw)
}

func companyRow(n int, values map[string]string) csvimport.Row {
	raw := map[string]string{
		"company_name":    "Acme Staffing",
		"email":           "hello@acme.example.com",
		"why_vote_for_me": "Fastest placements",
		"category":        "best-recruitment-agency",
	}
	for k, v := range values {
		raw[k] = v
	}
	return csvimport.NewRow(models.NomineeCompany, n, raw)
}

func validate(t *testing.T, l Lookup, rows ...csvimport.Row) Result {
	t.Helper()
	res, err := New(l).Validate(context.Background(), rows)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return res
}

func TestValidRows(t *testing.T) {
	res := validate(t, newLookup(),
		personRow(1, nil),
		personRow(2, map[string]string{"email": "grace@example.com", "linkedin": "https://www.linkedin.com/in/grace"}),
	)
	if len(res.Valid) != 2 || len(res.Errors) != 0 {
		t.Fatalf("Expected 2 valid rows and no errors, got %d valid, errors %v", len(res.Valid), res.Errors)
	}
}

func TestMissingRequiredExactlyOncePerField(t *testing.T) {
	tests := []struct {
		name    string
		row     csvimport.Row
		missing []string
	}{
		{"person no names", personRow(1, map[string]string{"first_name": "", "last_name": ""}), []string{"first_name", "last_name"}},
		{"person no email", personRow(1, map[string]string{"email": ""}), []string{"email"}},
		{"person no why", personRow(1, map[string]string{"why_vote_for_me": ""}), []string{"why_vote_for_me"}},
		{"company no name", companyRow(1, map[string]string{"company_name": ""}), []string{"company_name"}},
		{"company everything", companyRow(1, map[string]string{"company_name": "", "email": "", "why_vote_for_me": "", "category": ""}),
			[]string{"company_name", "email", "why_vote_for_me", "category"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(t, newLookup(), tt.row)
			counts := map[string]int{}
			for _, e := range res.Errors {
				if e.Type != models.ErrorMissingRequired {
					t.Errorf("Unexpected non-missing error: %+v", e)
					continue
				}
				counts[e.Field]++
			}
			if len(counts) != len(tt.missing) {
				t.Errorf("Expected %d missing fields, got %v", len(tt.missing), counts)
			}
			for _, f := range tt.missing {
				if counts[f] != 1 {
					t.Errorf("Expected exactly one missing_required for %s, got %d", f, counts[f])
				}
			}
			if len(res.Valid) != 0 {
				t.Error("Row with missing fields must not be valid")
			}
		})
	}
}

func TestFormatChecks(t *testing.T) {
	tests := []struct {
		name  string
		row   csvimport.Row
		field string
	}{
		{"bad email", personRow(1, map[string]string{"email": "not-an-email"}), "email"},
		{"bad nominator email", personRow(1, map[string]string{"nominator_email": "nora at acme"}), "nominator_email"},
		{"headshot without scheme", personRow(1, map[string]string{"headshot_url": "cdn.acme.com/a.png"}), "headshot_url"},
		{"website ftp", companyRow(1, map[string]string{"website": "ftp://acme.com"}), "website"},
		{"linkedin elsewhere", personRow(1, map[string]string{"linkedin": "https://facebook.com/ada"}), "linkedin"},
		{"linkedin lookalike", personRow(1, map[string]string{"linkedin": "https://linkedin.com.evil.io/in/ada"}), "linkedin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(t, newLookup(), tt.row)
			if len(res.Errors) != 1 {
				t.Fatalf("Expected 1 error, got %v", res.Errors)
			}
			e := res.Errors[0]
			if e.Field != tt.field || e.Type != models.ErrorValidation {
				t.Errorf("Expected validation error on %s, got %+v", tt.field, e)
			}
			if e.SuggestedFix == "" {
				t.Error("Expected a suggested fix")
			}
		})
	}
}

func TestLinkedInAllowsExampleDomains(t *testing.T) {
	for _, v := range []string{
		"https://www.linkedin.com/in/ada",
		"https://uk.linkedin.com/in/ada",
		"https://www.example.com/in/ada",
		"http://profiles.example.org/ada",
	} {
		res := validate(t, newLookup(), personRow(1, map[string]string{"linkedin": v}))
		if len(res.Errors) != 0 {
			t.Errorf("Expected %s to be accepted, got %v", v, res.Errors)
		}
	}
}

func TestLengthBounds(t *testing.T) {
	res := validate(t, newLookup(), personRow(1, map[string]string{
		"why_vote_for_me": strings.Repeat("a", 1001),
		"bio":             strings.Repeat("é", 2000),
	}))
	if len(res.Errors) != 1 {
		t.Fatalf("Expected 1 length error, got %v", res.Errors)
	}
	if res.Errors[0].Field != "why_vote_for_me" {
		t.Errorf("Expected why_vote_for_me length error, got %+v", res.Errors[0])
	}
}

func TestCategoryChecks(t *testing.T) {
	l := newLookup()
	res := validate(t, l,
		personRow(1, map[string]string{"category": "no-such-category"}),
		personRow(2, map[string]string{"email": "b@example.com", "category": "best-recruitment-agency"}),
		personRow(3, map[string]string{"email": "c@example.com", "category": "no-such-category"}),
	)
	if len(res.Errors) != 3 {
		t.Fatalf("Expected 3 category errors, got %v", res.Errors)
	}
	for _, e := range res.Errors {
		if e.Field != "category" || e.Type != models.ErrorValidation {
			t.Errorf("Unexpected error: %+v", e)
		}
	}
	if l.calls != 2 {
		t.Errorf("Expected category lookups to be cached, got %d calls", l.calls)
	}
}

func TestDuplicateWithinFileFlagsLaterRowOnly(t *testing.T) {
	res := validate(t, newLookup(),
		personRow(1, map[string]string{"email": "Ada@Example.com"}),
		personRow(2, map[string]string{"email": "grace@example.com"}),
		personRow(3, map[string]string{"email": "ada@example.COM"}),
	)
	if len(res.Valid) != 2 {
		t.Fatalf("Expected first two rows valid, got %d", len(res.Valid))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("Expected one duplicate error, got %v", res.Errors)
	}
	e := res.Errors[0]
	if e.Row != 3 || e.Type != models.ErrorDuplicate || e.Field != "email" {
		t.Errorf("Expected duplicate on row 3, got %+v", e)
	}
	if res.Duplicates != 1 || res.InvalidRows != 1 {
		t.Errorf("Expected counts 1/1, got duplicates=%d invalid=%d", res.Duplicates, res.InvalidRows)
	}
}

func TestDuplicateAgainstExistingNominees(t *testing.T) {
	l := newLookup()
	l.emails["ada@example.com"] = true

	res := validate(t, l, personRow(1, map[string]string{"email": "ADA@example.com"}))
	if len(res.Errors) != 1 || res.Errors[0].Type != models.ErrorDuplicate {
		t.Fatalf("Expected duplicate error, got %v", res.Errors)
	}
}

func TestRowsAreIndependent(t *testing.T) {
	res := validate(t, newLookup(),
		personRow(1, nil),
		personRow(2, map[string]string{"email": "not-an-email"}),
		personRow(3, map[string]string{"email": "c@example.com"}),
	)
	if len(res.Valid) != 2 {
		t.Fatalf("Expected 2 valid rows, got %d", len(res.Valid))
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 2 || res.Errors[0].Field != "email" {
		t.Errorf("Expected single email error on row 2, got %v", res.Errors)
	}
}

func TestLookupFailureAborts(t *testing.T) {
	l := newLookup()
	l.err = errors.New("connection refused")

	if _, err := New(l).Validate(context.Background(), []csvimport.Row{personRow(1, nil)}); err == nil {
		t.Fatal("Expected lookup failure to be returned")
	}
}
