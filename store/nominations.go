// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/worldstaffingawards/wsa2026/auth"
	"github.com/worldstaffingawards/wsa2026/models"
)

var nomineeColumns = []string{
	"id", "type", "email", "phone", "country", "linkedin", "bio", "achievements",
	"first_name", "last_name", "job_title", "employer", "headshot_url",
	"company_name", "website", "logo_url", "industry", "company_size", "created_at",
}

var nominationColumns = []string{
	"id", "nominator_id", "nominee_id", "category_id", "state", "why_vote",
	"votes", "additional_votes", "live_slug", "live_url", "approved_by", "approved_at",
	"admin_notes", "rejection_reason", "sync_pending", "source",
	"upload_batch_id", "upload_row_number", "uploaded_by", "created_at", "updated_at",
}

var nominatorColumns = []string{
	"id", "email", "name", "company", "job_title", "phone", "country", "created_at",
}

func columns(prefix string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + "." + c
	}
	return strings.Join(out, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func nomineeDest(n *models.Nominee) []any {
	return []any{
		&n.ID, &n.Type, &n.Email, &n.Phone, &n.Country, &n.LinkedIn, &n.Bio, &n.Achievements,
		&n.FirstName, &n.LastName, &n.JobTitle, &n.Employer, &n.HeadshotURL,
		&n.CompanyName, &n.Website, &n.LogoURL, &n.Industry, &n.CompanySize, &n.CreatedAt,
	}
}

func nominationDest(n *models.Nomination) []any {
	return []any{
		&n.ID, &n.NominatorID, &n.NomineeID, &n.CategoryID, &n.State, &n.WhyVote,
		&n.Votes, &n.AdditionalVotes, &n.LiveSlug, &n.LiveURL, &n.ApprovedBy, &n.ApprovedAt,
		&n.AdminNotes, &n.RejectionReason, &n.SyncPending, &n.Source,
		&n.UploadBatchID, &n.UploadRowNumber, &n.UploadedBy, &n.CreatedAt, &n.UpdatedAt,
	}
}

func nominatorDest(n *models.Nominator) []any {
	return []any{&n.ID, &n.Email, &n.Name, &n.Company, &n.JobTitle, &n.Phone, &n.Country, &n.CreatedAt}
}

func scanDetail(row scanner) (models.NominationDetail, error) {
	var d models.NominationDetail
	dest := nominationDest(&d.Nomination)
	dest = append(dest, nomineeDest(&d.Nominee)...)
	dest = append(dest, nominatorDest(&d.Nominator)...)
	if err := row.Scan(dest...); err != nil {
		return d, err
	}
	d.TotalVotes = d.Nomination.TotalVotes()
	return d, nil
}

var detailSelect = `SELECT ` + columns("n", nominationColumns) + `, ` +
	columns("e", nomineeColumns) + `, ` + columns("r", nominatorColumns) + `
	FROM nominations n
	JOIN nominees e ON e.id = n.nominee_id
	JOIN nominators r ON r.id = n.nominator_id`

// ---------- Nominators ----------

// FindOrCreateNominator matches a nominator by email and inserts one when
// no match exists. Returns the nominator id.
func (s *Store) FindOrCreateNominator(ctx context.Context, n models.Nominator) (string, error) {
	n.Email = auth.NormalizeEmail(n.Email)

	var id string
	err := s.q.QueryRowContext(ctx, `SELECT id FROM nominators WHERE email = $1`, n.Email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err = mapErr(err); !errors.Is(err, ErrNotFound) {
		return "", err
	}

	id = auth.NewID()
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO nominators (id, email, name, company, job_title, phone, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, n.Email, n.Name, n.Company, n.JobTitle, n.Phone, n.Country, time.Now().UTC())
	if err = mapErr(err); errors.Is(err, ErrConflict) {
		// lost a race with a concurrent insert of the same email
		if err := s.q.QueryRowContext(ctx, `SELECT id FROM nominators WHERE email = $1`, n.Email).Scan(&id); err != nil {
			return "", mapErr(err)
		}
		return id, nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// ---------- Nominees ----------

func (s *Store) NomineeEmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM nominees WHERE email = $1`, auth.NormalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateNominee inserts the nominee and assigns its ID. Returns ErrConflict
// when another nominee already uses the email.
func (s *Store) CreateNominee(ctx context.Context, n *models.Nominee) error {
	n.ID = auth.NewID()
	n.Email = auth.NormalizeEmail(n.Email)
	n.CreatedAt = time.Now().UTC()
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO nominees (id, type, email, phone, country, linkedin, bio, achievements,
			first_name, last_name, job_title, employer, headshot_url,
			company_name, website, logo_url, industry, company_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, n.ID, n.Type, n.Email, n.Phone, n.Country, n.LinkedIn, n.Bio, n.Achievements,
		n.FirstName, n.LastName, n.JobTitle, n.Employer, n.HeadshotURL,
		n.CompanyName, n.Website, n.LogoURL, n.Industry, n.CompanySize, n.CreatedAt)
	return mapErr(err)
}

// ---------- Nominations ----------

func (s *Store) CreateNomination(ctx context.Context, n *models.Nomination) error {
	now := time.Now().UTC()
	n.ID = auth.NewID()
	n.CreatedAt = now
	n.UpdatedAt = now
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO nominations (id, nominator_id, nominee_id, category_id, state, why_vote,
			source, upload_batch_id, upload_row_number, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, n.ID, n.NominatorID, n.NomineeID, n.CategoryID, n.State, n.WhyVote,
		n.Source, n.UploadBatchID, n.UploadRowNumber, n.UploadedBy, n.CreatedAt, n.UpdatedAt)
	return mapErr(err)
}

func (s *Store) GetNomination(ctx context.Context, id string) (models.NominationDetail, error) {
	d, err := scanDetail(s.q.QueryRowContext(ctx, detailSelect+` WHERE n.id = $1`, id))
	return d, mapErr(err)
}

func (s *Store) GetNominationBySlug(ctx context.Context, slug string) (models.NominationDetail, error) {
	d, err := scanDetail(s.q.QueryRowContext(ctx, detailSelect+` WHERE n.live_slug = $1`, slug))
	return d, mapErr(err)
}

type NominationFilter struct {
	State      string
	CategoryID string
	BatchID    string
	Type       string
	Search     string
	ByVotes    bool
	Limit      int
	Offset     int
}

func (s *Store) ListNominations(ctx context.Context, f NominationFilter) ([]models.NominationDetail, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.State != "" {
		add("n.state = $%d", f.State)
	}
	if f.CategoryID != "" {
		add("n.category_id = $%d", f.CategoryID)
	}
	if f.BatchID != "" {
		add("n.upload_batch_id = $%d", f.BatchID)
	}
	if f.Type != "" {
		add("e.type = $%d", f.Type)
	}
	if f.Search != "" {
		add("LOWER(COALESCE(e.first_name, '') || ' ' || COALESCE(e.last_name, '') || ' ' || COALESCE(e.company_name, '') || ' ' || e.email) LIKE '%%' || $%d || '%%' ESCAPE '\\'",
			escapeLike(strings.ToLower(f.Search)))
	}

	query := detailSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.ByVotes {
		query += " ORDER BY n.votes + n.additional_votes DESC, n.id"
	} else {
		query += " ORDER BY n.created_at DESC, n.id"
	}
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.NominationDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern escaped with '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// NominationUpdate holds admin edits that do not change state.
type NominationUpdate struct {
	AdminNotes      *string
	AdditionalVotes *int
	CategoryID      *string
}

func (s *Store) UpdateNomination(ctx context.Context, id string, u NominationUpdate) error {
	sets := []string{}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.AdminNotes != nil {
		set("admin_notes", *u.AdminNotes)
	}
	if u.AdditionalVotes != nil {
		set("additional_votes", *u.AdditionalVotes)
	}
	if u.CategoryID != nil {
		set("category_id", *u.CategoryID)
	}
	set("updated_at", time.Now().UTC())
	args = append(args, id)

	res, err := s.q.ExecContext(ctx, fmt.Sprintf(`UPDATE nominations SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return mapErr(err)
	}
	return expectOne(res)
}

// Approval holds the fields written when a nomination is approved.
type Approval struct {
	ApprovedBy string
	ApprovedAt time.Time
	AdminNotes *string
	LiveSlug   string
	LiveURL    string
}

// MarkApproved moves a draft or submitted nomination to approved and flags
// it for sync. Returns ErrNotFound if the nomination is not in an
// approvable state.
func (s *Store) MarkApproved(ctx context.Context, id string, a Approval) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE nominations
		SET state = $1, approved_by = $2, approved_at = $3, admin_notes = COALESCE($4, admin_notes),
			live_slug = $5, live_url = $6, sync_pending = TRUE, updated_at = $7
		WHERE id = $8 AND state IN ('draft', 'submitted')
	`, models.StateApproved, a.ApprovedBy, a.ApprovedAt, a.AdminNotes, a.LiveSlug, a.LiveURL, a.ApprovedAt, id)
	if err != nil {
		return mapErr(err)
	}
	return expectOne(res)
}

// MarkRejected moves a draft or submitted nomination to rejected.
func (s *Store) MarkRejected(ctx context.Context, id, rejectedBy, reason string, notes *string, at time.Time) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE nominations
		SET state = $1, approved_by = $2, rejection_reason = $3, admin_notes = COALESCE($4, admin_notes), updated_at = $5
		WHERE id = $6 AND state IN ('draft', 'submitted')
	`, models.StateRejected, rejectedBy, reason, notes, at, id)
	if err != nil {
		return mapErr(err)
	}
	return expectOne(res)
}

func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM nominations WHERE live_slug = $1`, slug).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteNomination removes the nomination and its nominee. A nominee belongs
// to exactly one nomination, so the identity row goes with it.
func (s *Store) DeleteNomination(ctx context.Context, id string) error {
	return s.InTx(ctx, func(tx *Store) error {
		var nomineeID string
		if err := tx.q.QueryRowContext(ctx, `SELECT nominee_id FROM nominations WHERE id = $1`, id).Scan(&nomineeID); err != nil {
			return mapErr(err)
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM nominations WHERE id = $1`, id); err != nil {
			return err
		}
		_, err := tx.q.ExecContext(ctx, `DELETE FROM nominees WHERE id = $1`, nomineeID)
		return err
	})
}

// IncrementVotes adds one vote atomically and returns the new public total.
func (s *Store) IncrementVotes(ctx context.Context, id string) (int, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE nominations SET votes = votes + 1, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return 0, err
	}
	if err := expectOne(res); err != nil {
		return 0, err
	}
	var total int
	err = s.q.QueryRowContext(ctx, `SELECT votes + additional_votes FROM nominations WHERE id = $1`, id).Scan(&total)
	return total, mapErr(err)
}

func (s *Store) ClearSyncPending(ctx context.Context, id string) error {
	_, err := s.q.ExecContext(ctx, `UPDATE nominations SET sync_pending = FALSE WHERE id = $1`, id)
	return err
}

// BatchNominationIDs lists nominations produced by a batch that are still
// awaiting a decision.
func (s *Store) BatchNominationIDs(ctx context.Context, batchID string) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id FROM nominations
		WHERE upload_batch_id = $1 AND state IN ('draft', 'submitted')
		ORDER BY upload_row_number
	`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
