// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/worldstaffingawards/wsa2026/auth"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/outbox"
	"github.com/worldstaffingawards/wsa2026/store"
	"github.com/worldstaffingawards/wsa2026/validation"
)

var (
	ErrAlreadyVoted = errors.New("already voted in this category")
	ErrNotVotable   = errors.New("nomination is not open for votes")
	ErrInvalidVoter = errors.New("voter email, first name and last name are required")
)

// Ballot is one public vote with the voter's identity.
type Ballot struct {
	NominationID string
	Email        string
	FirstName    string
	LastName     string
	Company      string
	JobTitle     string
	LinkedIn     string
	IP           string
	UserAgent    string
}

type Service struct {
	store  *store.Store
	ipSalt string
}

func New(st *store.Store, ipSalt string) *Service {
	return &Service{store: st, ipSalt: ipSalt}
}

// Cast records a vote for an approved nomination. Each voter gets one vote
// per category; the unique index on (voter, category) enforces it.
func (s *Service) Cast(ctx context.Context, b Ballot) (models.CastVoteResponse, error) {
	b.Email = auth.NormalizeEmail(b.Email)
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)
	if !validation.ValidEmail(b.Email) || b.FirstName == "" || b.LastName == "" {
		return models.CastVoteResponse{}, ErrInvalidVoter
	}

	var out models.CastVoteResponse
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		nom, err := tx.GetNomination(ctx, b.NominationID)
		if err != nil {
			return err
		}
		if nom.State != models.StateApproved {
			return ErrNotVotable
		}

		voterID, err := tx.UpsertVoter(ctx, models.Voter{
			Email:     b.Email,
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Company:   b.Company,
			JobTitle:  b.JobTitle,
			LinkedIn:  b.LinkedIn,
		})
		if err != nil {
			return fmt.Errorf("upsert voter: %w", err)
		}

		vote := store.Vote{
			VoterID:      voterID,
			NominationID: nom.ID,
			CategoryID:   nom.CategoryID,
			UserAgent:    b.UserAgent,
		}
		if b.IP != "" {
			vote.IPHash = auth.HashIP(b.IP, s.ipSalt)
		}
		if err := tx.CreateVote(ctx, &vote); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAlreadyVoted
			}
			return fmt.Errorf("create vote: %w", err)
		}

		total, err := tx.IncrementVotes(ctx, nom.ID)
		if err != nil {
			return fmt.Errorf("increment votes: %w", err)
		}

		contact := models.SyncContact{
			Email:       b.Email,
			FirstName:   b.FirstName,
			LastName:    b.LastName,
			CompanyName: b.Company,
			Role:        "voter",
			Category:    nom.CategoryID,
		}
		if err := outbox.Enqueue(ctx, tx, models.TargetLoops, models.EventVoteCast, &nom.ID, contact); err != nil {
			return err
		}

		out = models.CastVoteResponse{VoteID: vote.ID, TotalVotes: total}
		return nil
	})
	if err != nil {
		return models.CastVoteResponse{}, err
	}

	slog.Info("vote cast", "nomination_id", b.NominationID, "vote_id", out.VoteID)
	return out, nil
}

// Directory lists approved nominees, highest public total first.
func (s *Service) Directory(ctx context.Context, f store.DirectoryFilter) ([]models.DirectoryEntry, error) {
	return s.store.Directory(ctx, f)
}

// BySlug returns the public profile behind a live slug. Only approved
// nominations have one.
func (s *Service) BySlug(ctx context.Context, slug string) (models.NomineeProfile, error) {
	d, err := s.store.GetNominationBySlug(ctx, slug)
	if err != nil {
		return models.NomineeProfile{}, err
	}
	if d.State != models.StateApproved {
		return models.NomineeProfile{}, store.ErrNotFound
	}
	return models.NomineeProfile{
		DirectoryEntry: store.DirectoryEntryOf(d),
		WhyVote:        d.WhyVote,
		Bio:            d.Nominee.Bio,
		Achievements:   d.Nominee.Achievements,
		LinkedIn:       d.Nominee.LinkedIn,
		Website:        d.Nominee.Website,
		Country:        d.Nominee.Country,
	}, nil
}

// Counts returns public totals for polling clients, optionally for one
// category.
func (s *Service) Counts(ctx context.Context, categoryID string) ([]models.VoteCount, error) {
	return s.store.VoteCounts(ctx, categoryID)
}
