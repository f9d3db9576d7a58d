// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package csvimport

import (
	"encoding/csv"
	"io"

	"github.com/worldstaffingawards/wsa2026/models"
)

var personExample = map[string]string{
	"first_name":          "Jane",
	"last_name":           "Doe",
	"job_title":           "Senior Recruiter",
	"company_name":        "Example Staffing",
	"email":               "jane.doe@example.com",
	"phone":               "+1 555 0100",
	"country":             "United States",
	"linkedin":            "https://www.linkedin.com/in/janedoe",
	"bio":                 "Ten years of healthcare recruiting.",
	"achievements":        "Placed 400 nurses in 2025.",
	"why_vote_for_me":     "Jane rebuilt our sourcing playbook and doubled fill rates.",
	"headshot_url":        "https://example.com/jane.jpg",
	"category":            "top-recruiter",
	"nominator_name":      "John Smith",
	"nominator_email":     "john.smith@example.com",
	"nominator_company":   "Example Staffing",
	"nominator_job_title": "VP Talent",
}

var companyExample = map[string]string{
	"company_name":        "Example Talent Co",
	"website":             "https://example.com",
	"email":               "hello@example.com",
	"country":             "United Kingdom",
	"industry":            "Staffing",
	"company_size":        "51-200",
	"linkedin":            "https://www.linkedin.com/company/example",
	"bio":                 "Tech-first staffing for fintech.",
	"achievements":        "Grew 120% year over year.",
	"why_vote_for_me":     "They built an AI screening flow candidates love.",
	"logo_url":            "https://example.com/logo.png",
	"category":            "fastest-growing-staffing-firm",
	"nominator_name":      "John Smith",
	"nominator_email":     "john.smith@example.com",
	"nominator_company":   "Example Talent Co",
	"nominator_job_title": "COO",
}

// WriteTemplate writes the header row and one example row for typ.
func WriteTemplate(w io.Writer, typ string) error {
	headers := Headers(typ)
	example := personExample
	if typ == models.NomineeCompany {
		example = companyExample
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = example[h]
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
