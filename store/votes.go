// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/worldstaffingawards/wsa2026/auth"
	"github.com/worldstaffingawards/wsa2026/models"
)

// UpsertVoter returns the id of the voter with v.Email, creating the voter
// on first vote.
func (s *Store) UpsertVoter(ctx context.Context, v models.Voter) (string, error) {
	v.Email = auth.NormalizeEmail(v.Email)

	var id string
	err := s.q.QueryRowContext(ctx, `SELECT id FROM voters WHERE email = $1`, v.Email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err = mapErr(err); !errors.Is(err, ErrNotFound) {
		return "", err
	}

	id = auth.NewID()
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO voters (id, email, first_name, last_name, company, job_title, linkedin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, v.Email, v.FirstName, v.LastName, v.Company, v.JobTitle, v.LinkedIn, time.Now().UTC())
	if err = mapErr(err); errors.Is(err, ErrConflict) {
		if err := s.q.QueryRowContext(ctx, `SELECT id FROM voters WHERE email = $1`, v.Email).Scan(&id); err != nil {
			return "", mapErr(err)
		}
		return id, nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

type Vote struct {
	ID           string
	VoterID      string
	NominationID string
	CategoryID   string
	IPHash       string
	UserAgent    string
}

// CreateVote records a vote. Returns ErrConflict when the voter already
// voted in the category.
func (s *Store) CreateVote(ctx context.Context, v *Vote) error {
	v.ID = auth.NewID()
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO votes (id, voter_id, nomination_id, category_id, ip_hash, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.VoterID, v.NominationID, v.CategoryID, v.IPHash, v.UserAgent, time.Now().UTC())
	return mapErr(err)
}

// VoteCounts lists public totals of approved nominations, highest first.
func (s *Store) VoteCounts(ctx context.Context, categoryID string) ([]models.VoteCount, error) {
	query := `
		SELECT n.id, n.category_id, e.type, e.first_name, e.last_name, e.company_name,
			n.votes, n.votes + n.additional_votes AS total
		FROM nominations n
		JOIN nominees e ON e.id = n.nominee_id
		WHERE n.state = 'approved'`
	args := []any{}
	if categoryID != "" {
		query += ` AND n.category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY total DESC, n.id`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []models.VoteCount{}
	for rows.Next() {
		var (
			c   models.VoteCount
			nom models.Nominee
		)
		if err := rows.Scan(&c.NominationID, &c.CategoryID, &nom.Type, &nom.FirstName, &nom.LastName,
			&nom.CompanyName, &c.Votes, &c.TotalVotes); err != nil {
			return nil, err
		}
		c.DisplayName = nom.DisplayName()
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type DirectoryFilter struct {
	CategoryID string
	Type       string
	Search     string
	Limit      int
}

// Directory lists approved nominees for the public site.
func (s *Store) Directory(ctx context.Context, f DirectoryFilter) ([]models.DirectoryEntry, error) {
	details, err := s.ListNominations(ctx, NominationFilter{
		State:      models.StateApproved,
		CategoryID: f.CategoryID,
		Type:       f.Type,
		Search:     f.Search,
		ByVotes:    true,
		Limit:      f.Limit,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]models.DirectoryEntry, 0, len(details))
	for _, d := range details {
		entries = append(entries, DirectoryEntryOf(d))
	}
	return entries, nil
}

// DirectoryEntryOf projects an approved nomination into its public listing.
func DirectoryEntryOf(d models.NominationDetail) models.DirectoryEntry {
	e := models.DirectoryEntry{
		NominationID: d.ID,
		CategoryID:   d.CategoryID,
		Type:         d.Nominee.Type,
		DisplayName:  d.Nominee.DisplayName(),
		TotalVotes:   d.TotalVotes,
	}
	if d.LiveSlug != nil {
		e.LiveSlug = *d.LiveSlug
	}
	if d.LiveURL != nil {
		e.LiveURL = *d.LiveURL
	}
	if d.Nominee.Type == models.NomineeCompany {
		e.ImageURL = d.Nominee.LogoURL
		if d.Nominee.Industry != nil {
			e.Subtitle = *d.Nominee.Industry
		}
	} else {
		e.ImageURL = d.Nominee.HeadshotURL
		if d.Nominee.JobTitle != nil {
			e.Subtitle = *d.Nominee.JobTitle
		}
		if d.Nominee.Employer != nil && *d.Nominee.Employer != "" {
			if e.Subtitle != "" {
				e.Subtitle += ", "
			}
			e.Subtitle += *d.Nominee.Employer
		}
	}
	return e
}
