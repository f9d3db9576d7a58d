// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/worldstaffingawards/wsa2026/models"
)

// Stats aggregates nomination, vote and sync counts for the admin console.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	st := models.Stats{
		ByState:    map[string]int{},
		ByType:     map[string]int{},
		Categories: []models.CategoryStats{},
	}

	if err := s.groupCount(ctx, `SELECT state, COUNT(1) FROM nominations GROUP BY state`, st.ByState); err != nil {
		return st, err
	}
	if err := s.groupCount(ctx, `
		SELECT e.type, COUNT(1) FROM nominations n JOIN nominees e ON e.id = n.nominee_id GROUP BY e.type
	`, st.ByType); err != nil {
		return st, err
	}

	err := s.q.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(1) FROM voters),
			(SELECT COALESCE(SUM(votes + additional_votes), 0) FROM nominations WHERE state = 'approved'),
			(SELECT COUNT(1) FROM sync_outbox WHERE status = 'pending')
	`).Scan(&st.Voters, &st.TotalVotes, &st.PendingSync)
	if err != nil {
		return st, err
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT c.id,
			COUNT(n.id),
			COALESCE(SUM(CASE WHEN n.state = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN n.state = 'approved' THEN n.votes + n.additional_votes ELSE 0 END), 0)
		FROM categories c
		LEFT JOIN nominations n ON n.category_id = c.id
		GROUP BY c.id
		ORDER BY c.id
	`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs models.CategoryStats
		if err := rows.Scan(&cs.CategoryID, &cs.Nominations, &cs.Approved, &cs.TotalVotes); err != nil {
			return st, err
		}
		st.Categories = append(st.Categories, cs)
	}
	return st, rows.Err()
}

func (s *Store) groupCount(ctx context.Context, query string, into map[string]int) error {
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
