// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/outbox"
	"github.com/worldstaffingawards/wsa2026/store"
)

var (
	ErrInvalidTransition       = errors.New("nomination is not awaiting a decision")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
)

// Decision is an admin's approve or reject request.
type Decision struct {
	DecidedBy       string
	AdminNotes      string
	RejectionReason string
}

type Service struct {
	store   *store.Store
	baseURL string
	now     func() time.Time
}

// New returns an approval service. baseURL prefixes every live URL.
func New(st *store.Store, baseURL string) *Service {
	return &Service{
		store:   st,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithStore returns a copy of the service bound to st. Bind it to a
// transaction Store to make a decision part of a larger change.
func (s *Service) WithStore(st *store.Store) *Service {
	c := *s
	c.store = st
	return &c
}

// LiveURL is the public profile address for a slug.
func (s *Service) LiveURL(slug string) string {
	return s.baseURL + "/nominee/" + url.PathEscape(slug)
}

// Approve moves a draft or submitted nomination to approved, assigns its
// live slug and URL, and queues the nominee for HubSpot and Loops in the
// same transaction.
func (s *Service) Approve(ctx context.Context, id string, d Decision) (models.NominationDetail, error) {
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		current, err := tx.GetNomination(ctx, id)
		if err != nil {
			return err
		}
		if !awaitingDecision(current.State) {
			return fmt.Errorf("%w: state is %s", ErrInvalidTransition, current.State)
		}

		slug, err := uniqueSlug(ctx, tx, Slugify(current.Nominee.DisplayName()))
		if err != nil {
			return fmt.Errorf("assign slug: %w", err)
		}
		approval := store.Approval{
			ApprovedBy: d.DecidedBy,
			ApprovedAt: s.now(),
			AdminNotes: optional(d.AdminNotes),
			LiveSlug:   slug,
			LiveURL:    s.LiveURL(slug),
		}
		if err := tx.MarkApproved(ctx, id, approval); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidTransition
			}
			return err
		}

		contact := nomineeContact(current, approval.LiveURL)
		for _, target := range outbox.Targets {
			if err := outbox.Enqueue(ctx, tx, target, models.EventNominationApproved, &current.ID, contact); err != nil {
				return fmt.Errorf("enqueue %s sync: %w", target, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.NominationDetail{}, err
	}

	updated, err := s.store.GetNomination(ctx, id)
	if err != nil {
		return models.NominationDetail{}, err
	}
	slog.Info("nomination approved", "nomination_id", id, "slug", *updated.LiveSlug, "approved_by", d.DecidedBy)
	return updated, nil
}

// Reject moves a draft or submitted nomination to rejected. A non-empty
// reason is required and nothing is synced.
func (s *Service) Reject(ctx context.Context, id string, d Decision) (models.NominationDetail, error) {
	reason := strings.TrimSpace(d.RejectionReason)
	if reason == "" {
		return models.NominationDetail{}, ErrRejectionReasonRequired
	}

	err := s.store.InTx(ctx, func(tx *store.Store) error {
		current, err := tx.GetNomination(ctx, id)
		if err != nil {
			return err
		}
		if !awaitingDecision(current.State) {
			return fmt.Errorf("%w: state is %s", ErrInvalidTransition, current.State)
		}
		err = tx.MarkRejected(ctx, id, d.DecidedBy, reason, optional(d.AdminNotes), s.now())
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidTransition
		}
		return err
	})
	if err != nil {
		return models.NominationDetail{}, err
	}

	slog.Info("nomination rejected", "nomination_id", id, "rejected_by", d.DecidedBy)
	return s.store.GetNomination(ctx, id)
}

// ApproveBatch approves every nomination of an upload batch that is still
// awaiting a decision. Nominations that fail are reported by id and do not
// stop the rest.
func (s *Service) ApproveBatch(ctx context.Context, batchID string, d Decision) (models.BatchApprovalResponse, error) {
	if _, err := s.store.GetBatch(ctx, batchID); err != nil {
		return models.BatchApprovalResponse{}, err
	}
	ids, err := s.store.BatchNominationIDs(ctx, batchID)
	if err != nil {
		return models.BatchApprovalResponse{}, err
	}

	var out models.BatchApprovalResponse
	for _, id := range ids {
		if _, err := s.Approve(ctx, id, d); err != nil {
			slog.Error("failed to approve batch nomination", "batch_id", batchID, "nomination_id", id, "error", err)
			out.Failed = append(out.Failed, id)
			continue
		}
		out.Approved++
	}
	slog.Info("batch approved", "batch_id", batchID, "approved", out.Approved, "failed", len(out.Failed))
	return out, nil
}

func awaitingDecision(state string) bool {
	return state == models.StateDraft || state == models.StateSubmitted
}

func nomineeContact(d models.NominationDetail, liveURL string) models.SyncContact {
	c := models.SyncContact{
		Email:    d.Nominee.Email,
		Role:     "nominee",
		Category: d.CategoryID,
		LiveURL:  liveURL,
	}
	n := d.Nominee
	if n.Type == models.NomineeCompany {
		c.CompanyName = deref(n.CompanyName)
	} else {
		c.FirstName = deref(n.FirstName)
		c.LastName = deref(n.LastName)
		c.CompanyName = deref(n.Employer)
	}
	return c
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
