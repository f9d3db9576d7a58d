// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"

	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether v looks like a deliverable address.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// exampleDomains are the registrable domains used by template rows.
var exampleDomains = map[string]bool{
	"example.com": true,
	"example.org": true,
	"example.net": true,
}

var maxLength = map[string]int{
	"first_name":          100,
	"last_name":           100,
	"job_title":           150,
	"company_name":        200,
	"email":               254,
	"phone":               50,
	"country":             100,
	"linkedin":            500,
	"website":             500,
	"headshot_url":        500,
	"logo_url":            500,
	"industry":            100,
	"company_size":        50,
	"bio":                 2000,
	"achievements":        2000,
	"why_vote_for_me":     1000,
	"nominator_name":      200,
	"nominator_email":     254,
	"nominator_company":   200,
	"nominator_job_title": 150,
	"nominator_phone":     50,
	"nominator_country":   100,
}

type checker struct {
	row    csvimport.Row
	fields *csvimport.Fields
	errs   []RowError
}

func (c *checker) add(field, typ, msg, fix string) {
	c.errs = append(c.errs, RowError{
		Row:          c.fields.Number,
		Field:        field,
		Type:         typ,
		Message:      msg,
		SuggestedFix: fix,
		Raw:          c.fields.Raw,
	})
}

func (c *checker) value(field string) string {
	return c.fields.Raw[field]
}

func (c *checker) required() {
	for _, field := range csvimport.RequiredHeaders(c.row.NomineeType()) {
		if c.value(field) == "" {
			c.add(field, models.ErrorMissingRequired,
				fmt.Sprintf("%s is required", field),
				fmt.Sprintf("Fill in the %s column", field))
		}
	}
}

func (c *checker) formats() {
	for _, field := range []string{"email", "nominator_email"} {
		if v := c.value(field); v != "" && !emailPattern.MatchString(v) {
			c.add(field, models.ErrorValidation,
				fmt.Sprintf("Invalid email format: %q", v),
				"Use an address like name@company.com")
		}
	}

	urls := []string{"headshot_url"}
	if c.row.NomineeType() == models.NomineeCompany {
		urls = []string{"website", "logo_url"}
	}
	for _, field := range urls {
		if v := c.value(field); v != "" {
			if _, err := parseHTTPURL(v); err != nil {
				c.add(field, models.ErrorValidation,
					fmt.Sprintf("Invalid URL: %v", err),
					"Use a full address starting with https://")
			}
		}
	}

	if v := c.value("linkedin"); v != "" {
		if err := checkLinkedIn(v); err != nil {
			c.add("linkedin", models.ErrorValidation,
				fmt.Sprintf("Invalid LinkedIn URL: %v", err),
				"Use a profile address like https://www.linkedin.com/in/name")
		}
	}
}

func (c *checker) lengths() {
	for _, field := range csvimport.Headers(c.row.NomineeType()) {
		limit, ok := maxLength[field]
		if !ok {
			continue
		}
		if n := utf8.RuneCountInString(c.value(field)); n > limit {
			c.add(field, models.ErrorValidation,
				fmt.Sprintf("%s is %d characters, the limit is %d", field, n, limit),
				fmt.Sprintf("Shorten %s to %d characters or fewer", field, limit))
		}
	}
}

func parseHTTPURL(v string) (*url.URL, error) {
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return nil, fmt.Errorf("%q must start with http:// or https://", v)
	}
	u, err := url.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid address", v)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%q has no host", v)
	}
	return u, nil
}

func checkLinkedIn(v string) error {
	u, err := parseHTTPURL(v)
	if err != nil {
		return err
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(u.Hostname()))
	if err != nil {
		return fmt.Errorf("%q has no registrable domain", v)
	}
	if domain != "linkedin.com" && !exampleDomains[domain] {
		return fmt.Errorf("%q is not a linkedin.com address", v)
	}
	return nil
}
