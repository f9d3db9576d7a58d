// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/worldstaffingawards/wsa2026/models"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, label, group_name, nominee_type
		FROM categories
		WHERE active = TRUE
		ORDER BY group_name, label
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Label, &c.GroupName, &c.NomineeType); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryType returns the nominee type a category accepts.
func (s *Store) CategoryType(ctx context.Context, id string) (string, error) {
	var typ string
	err := s.q.QueryRowContext(ctx, `
		SELECT nominee_type FROM categories WHERE id = $1 AND active = TRUE
	`, id).Scan(&typ)
	if err != nil {
		return "", mapErr(err)
	}
	return typ, nil
}
