// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
)

// Lookup answers the referential questions a row cannot answer on its own.
// CategoryType returns store.ErrNotFound for unknown categories.
type Lookup interface {
	CategoryType(ctx context.Context, id string) (string, error)
	NomineeEmailExists(ctx context.Context, email string) (bool, error)
}

// RowError is one structured failure for one row.
type RowError struct {
	Row          int
	Field        string
	Type         string
	Message      string
	SuggestedFix string
	Raw          map[string]string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

// Result partitions the input rows. Valid keeps input order.
type Result struct {
	Valid  []csvimport.Row
	Errors []RowError

	// InvalidRows counts distinct rows with at least one error.
	InvalidRows int
	// Duplicates counts rows flagged with a duplicate error.
	Duplicates int
}

type Validator struct {
	lookup Lookup
}

func New(lookup Lookup) *Validator {
	return &Validator{lookup: lookup}
}

// Validate checks every row independently. The returned error is reserved
// for lookup failures; row problems are reported in Result.Errors.
func (v *Validator) Validate(ctx context.Context, rows []csvimport.Row) (Result, error) {
	var res Result
	categories := map[string]string{}
	seen := map[string]int{}

	for _, row := range rows {
		errs, err := v.check(ctx, row, categories, seen)
		if err != nil {
			return Result{}, err
		}
		if len(errs) == 0 {
			res.Valid = append(res.Valid, row)
			continue
		}
		res.InvalidRows++
		for _, e := range errs {
			if e.Type == models.ErrorDuplicate {
				res.Duplicates++
				break
			}
		}
		res.Errors = append(res.Errors, errs...)
	}
	return res, nil
}

func (v *Validator) check(ctx context.Context, row csvimport.Row, categories map[string]string, seen map[string]int) ([]RowError, error) {
	c := &checker{row: row, fields: row.Common()}

	c.required()
	c.formats()
	c.lengths()

	if err := v.category(ctx, c, categories); err != nil {
		return nil, err
	}

	email := strings.ToLower(c.fields.Email)
	if email == "" || !emailPattern.MatchString(email) {
		return c.errs, nil
	}
	if first, ok := seen[email]; ok {
		c.add("email", models.ErrorDuplicate,
			fmt.Sprintf("Email %s already appears in row %d of this file", c.fields.Email, first),
			"Remove the repeated row or nominate a different person or company")
		return c.errs, nil
	}
	seen[email] = c.fields.Number

	exists, err := v.lookup.NomineeEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check nominee email: %w", err)
	}
	if exists {
		c.add("email", models.ErrorDuplicate,
			fmt.Sprintf("A nominee with email %s already exists", c.fields.Email),
			"This nominee is already registered; remove the row or update the existing nomination")
	}
	return c.errs, nil
}

func (v *Validator) category(ctx context.Context, c *checker, cache map[string]string) error {
	id := c.fields.Category
	if id == "" {
		return nil
	}
	typ, ok := cache[id]
	if !ok {
		var err error
		typ, err = v.lookup.CategoryType(ctx, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			typ = ""
		case err != nil:
			return fmt.Errorf("look up category: %w", err)
		}
		cache[id] = typ
	}

	switch {
	case typ == "":
		c.add("category", models.ErrorValidation,
			fmt.Sprintf("Unknown category %q", id),
			"Use a category id from GET /api/categories, e.g. top-recruiter")
	case typ != c.row.NomineeType():
		c.add("category", models.ErrorValidation,
			fmt.Sprintf("Category %q only accepts %s nominees", id, typ),
			fmt.Sprintf("Pick a %s category or move this row to a %s upload", c.row.NomineeType(), typ))
	}
	return nil
}
