// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bulkupload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
	"github.com/worldstaffingawards/wsa2026/validation"
)

// FormError carries the field problems of a rejected form submission.
type FormError struct {
	Errors []validation.RowError
}

func (e *FormError) Error() string {
	fields := make([]string, len(e.Errors))
	for i, re := range e.Errors {
		fields[i] = re.Field
	}
	return "invalid nomination: " + strings.Join(fields, ", ")
}

// SubmitForm stores one public form nomination in the submitted state. It
// runs the same checks as a single-row upload, and the nominator's name and
// email are required.
func (s *Service) SubmitForm(ctx context.Context, req models.NominationFormRequest) (models.SubmitNominationResponse, error) {
	typ := req.Type
	if typ == "" {
		typ = models.NomineePerson
	}
	if typ != models.NomineePerson && typ != models.NomineeCompany {
		return models.SubmitNominationResponse{}, &FormError{Errors: []validation.RowError{{
			Row: 1, Field: "type", Type: models.ErrorValidation,
			Message: fmt.Sprintf("Unknown nominee type %q", req.Type),
		}}}
	}

	row := csvimport.NewRow(typ, 1, formFields(req))
	result, err := s.validator.Validate(ctx, []csvimport.Row{row})
	if err != nil {
		return models.SubmitNominationResponse{}, err
	}

	errs := result.Errors
	for _, field := range []string{"nominator_name", "nominator_email"} {
		if row.Common().Raw[field] == "" {
			errs = append(errs, validation.RowError{
				Row: 1, Field: field, Type: models.ErrorMissingRequired,
				Message: fmt.Sprintf("%s is required", field),
			})
		}
	}
	if len(errs) > 0 {
		return models.SubmitNominationResponse{}, &FormError{Errors: errs}
	}

	id, err := s.writeRow(ctx, row, models.StateSubmitted, models.SourceForm, nil)
	if errors.Is(err, store.ErrConflict) {
		return models.SubmitNominationResponse{}, &FormError{Errors: []validation.RowError{{
			Row: 1, Field: "email", Type: models.ErrorDuplicate,
			Message: "This nominee has already been nominated",
		}}}
	}
	if err != nil {
		return models.SubmitNominationResponse{}, err
	}

	slog.Info("nomination submitted", "nomination_id", id, "type", typ, "category", req.CategoryID)
	return models.SubmitNominationResponse{NominationID: id, State: models.StateSubmitted}, nil
}

func formFields(req models.NominationFormRequest) map[string]string {
	n, r := req.Nominee, req.Nominator
	raw := map[string]string{
		"email":               n.Email,
		"phone":               n.Phone,
		"country":             n.Country,
		"linkedin":            n.LinkedIn,
		"bio":                 n.Bio,
		"achievements":        n.Achievements,
		"why_vote_for_me":     req.WhyVote,
		"category":            req.CategoryID,
		"nominator_name":      r.Name,
		"nominator_email":     r.Email,
		"nominator_company":   r.Company,
		"nominator_job_title": r.JobTitle,
		"nominator_phone":     r.Phone,
		"nominator_country":   r.Country,
	}
	if req.Type == models.NomineeCompany {
		raw["company_name"] = n.CompanyName
		raw["website"] = n.Website
		raw["logo_url"] = n.LogoURL
		raw["industry"] = n.Industry
		raw["company_size"] = n.CompanySize
	} else {
		raw["first_name"] = n.FirstName
		raw["last_name"] = n.LastName
		raw["job_title"] = n.JobTitle
		raw["company_name"] = n.CompanyName
		raw["headshot_url"] = n.HeadshotURL
	}
	for k, v := range raw {
		raw[k] = strings.TrimSpace(v)
	}
	return raw
}
