// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/testutil"
)

func setupNominationHandler(t *testing.T) (*NominationHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewNominationHandler(db, testutil.GetTestConfig()), db
}

func formRequest() models.NominationFormRequest {
	var req models.NominationFormRequest
	req.Type = models.NomineePerson
	req.CategoryID = "top-recruiter"
	req.WhyVote = "Placed more nurses than anyone in the region"
	req.Nominee.FirstName = "Ada"
	req.Nominee.LastName = "Lovelace"
	req.Nominee.Email = "ada@wsa.test"
	req.Nominee.JobTitle = "Senior Recruiter"
	req.Nominee.CompanyName = "Acme Staffing"
	req.Nominator.Name = "Nora Nominator"
	req.Nominator.Email = "nora@wsa.test"
	return req
}

func TestSubmitNomination(t *testing.T) {
	h, db := setupNominationHandler(t)

	w := httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/api/nominations", formRequest(), nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SubmitNominationResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.NominationID == "" || resp.State != models.StateSubmitted {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM nominations WHERE id = $1 AND source = 'form'`, resp.NominationID); n != 1 {
		t.Error("Expected form nomination to be stored")
	}

	// Same nominee again is a duplicate
	w = httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/api/nominations", formRequest(), nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitNominationValidation(t *testing.T) {
	h, db := setupNominationHandler(t)

	req := formRequest()
	req.Nominee.Email = "not-an-email"
	req.Nominator.Name = ""

	w := httptest.NewRecorder()
	h.Submit(w, testutil.MakeRequest("POST", "/api/nominations", req, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	testutil.AssertJSON(t, w, &body)
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	if !fields["email"] || !fields["nominator_name"] {
		t.Errorf("Expected email and nominator_name details, got %+v", body.Details)
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM nominations`); n != 0 {
		t.Errorf("Invalid form must not be stored, got %d", n)
	}
}

func TestListNominations(t *testing.T) {
	h, db := setupNominationHandler(t)
	testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateDraft)
	testutil.CreateTestNomination(t, db, "Grace", "Hopper", "grace@wsa.test", "top-recruiter", models.StateSubmitted)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?state=draft", 1},
		{"?state=submitted", 1},
		{"?state=approved", 0},
		{"?q=grace", 1},
		{"?limit=1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.List(w, testutil.MakeRequest("GET", "/api/admin/nominations"+tt.query, nil, nil))
			testutil.AssertStatus(t, w, http.StatusOK)

			var list []models.NominationDetail
			testutil.AssertJSON(t, w, &list)
			if len(list) != tt.want {
				t.Errorf("Expected %d nominations, got %d", tt.want, len(list))
			}
		})
	}

	w := httptest.NewRecorder()
	h.List(w, testutil.MakeRequest("GET", "/api/admin/nominations?state=pending", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func patch(h *NominationHandler, id string, body any) *httptest.ResponseRecorder {
	req := testutil.WithURLParam(testutil.MakeRequest("PATCH", "/", body, nil), "id", id)
	w := httptest.NewRecorder()
	h.Update(w, req)
	return w
}

func TestUpdateNominationFields(t *testing.T) {
	h, db := setupNominationHandler(t)
	id := testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateDraft)

	w := patch(h, id, map[string]any{"additionalVotes": 5, "adminNotes": "Checked by phone"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.NominationDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.AdditionalVotes != 5 || detail.TotalVotes != 5 {
		t.Errorf("Expected 5 additional votes, got %d (total %d)", detail.AdditionalVotes, detail.TotalVotes)
	}
	if detail.AdminNotes == nil || *detail.AdminNotes != "Checked by phone" {
		t.Errorf("Expected admin notes to be saved, got %v", detail.AdminNotes)
	}
	if detail.State != models.StateDraft {
		t.Errorf("Field edits must not change state, got %s", detail.State)
	}
}

func TestUpdateNominationRejectsBadInput(t *testing.T) {
	h, db := setupNominationHandler(t)
	id := testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateDraft)

	tests := []struct {
		name string
		id   string
		body map[string]any
		want int
	}{
		{"negative additional votes", id, map[string]any{"additionalVotes": -1}, http.StatusBadRequest},
		{"unknown category", id, map[string]any{"categoryId": "best-robot"}, http.StatusBadRequest},
		{"company category for a person", id, map[string]any{"categoryId": "fastest-growing-staffing-firm"}, http.StatusBadRequest},
		{"state back to draft", id, map[string]any{"state": "draft"}, http.StatusBadRequest},
		{"reject without reason", id, map[string]any{"state": "rejected"}, http.StatusBadRequest},
		{"missing nomination", "missing", map[string]any{"adminNotes": "x"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertStatus(t, patch(h, tt.id, tt.body), tt.want)
		})
	}

	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM nominations WHERE id = $1 AND state = 'draft' AND additional_votes = 0`, id); n != 1 {
		t.Error("Rejected edits must leave the nomination untouched")
	}
}

func TestUpdateNominationStateTransition(t *testing.T) {
	h, db := setupNominationHandler(t)
	id := testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateSubmitted)

	w := patch(h, id, map[string]any{"state": "approved", "additionalVotes": 3})
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.NominationDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.State != models.StateApproved {
		t.Fatalf("Expected approved, got %s", detail.State)
	}
	if detail.LiveSlug == nil || *detail.LiveSlug != "ada-lovelace" {
		t.Errorf("Expected slug ada-lovelace, got %v", detail.LiveSlug)
	}
	if detail.LiveURL == nil || *detail.LiveURL != "https://wsa.test/nominee/ada-lovelace" {
		t.Errorf("Unexpected live url %v", detail.LiveURL)
	}
	if detail.AdditionalVotes != 3 {
		t.Errorf("Expected field edit alongside transition, got %d", detail.AdditionalVotes)
	}

	// Approved is final
	testutil.AssertStatus(t, patch(h, id, map[string]any{"state": "rejected", "rejectionReason": "late"}), http.StatusConflict)
}

func TestUpdateNominationFailedDecisionRollsBackFields(t *testing.T) {
	h, db := setupNominationHandler(t)
	id := testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateSubmitted)

	_, err := db.Exec(`
		CREATE TRIGGER block_approval BEFORE UPDATE OF state ON nominations
		WHEN NEW.state = 'approved'
		BEGIN SELECT RAISE(ABORT, 'approvals are frozen'); END
	`)
	if err != nil {
		t.Fatalf("Failed to install trigger: %v", err)
	}

	w := patch(h, id, map[string]any{"state": "approved", "additionalVotes": 7, "adminNotes": "looks good"})
	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	n := testutil.CountRows(t, db,
		`SELECT COUNT(*) FROM nominations WHERE id = $1 AND additional_votes = 0 AND admin_notes IS NULL AND state = 'submitted'`, id)
	if n != 1 {
		t.Error("Expected a failed decision to roll back the field edits sent with it")
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM sync_outbox`); n != 0 {
		t.Errorf("Expected no outbox rows, got %d", n)
	}
}

func decide(fn http.HandlerFunc, id string, body any, headers map[string]string) *httptest.ResponseRecorder {
	req := testutil.WithURLParam(testutil.MakeRequest("POST", "/", body, headers), "id", id)
	w := httptest.NewRecorder()
	fn(w, req)
	return w
}

func TestApproveNomination(t *testing.T) {
	h, db := setupNominationHandler(t)
	id := testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateDraft)

	w := decide(h.Approve, id, nil, map[string]string{"X-Admin-Email": "judge@wsa.test"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.NominationDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.ApprovedBy == nil || *detail.ApprovedBy != "judge@wsa.test" {
		t.Errorf("Expected approver from header, got %v", detail.ApprovedBy)
	}
	if !detail.SyncPending {
		t.Error("Expected sync to be pending after approval")
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM sync_outbox WHERE nomination_id = $1`, id); n != 2 {
		t.Errorf("Expected hubspot and loops outbox rows, got %d", n)
	}

	testutil.AssertStatus(t, decide(h.Approve, id, nil, nil), http.StatusConflict)
	testutil.AssertStatus(t, decide(h.Approve, "missing", nil, nil), http.StatusNotFound)
}

func TestRejectNomination(t *testing.T) {
	h, db := setupNominationHandler(t)
	id := testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateSubmitted)

	testutil.AssertStatus(t, decide(h.Reject, id, models.DecisionRequest{}, nil), http.StatusBadRequest)

	w := decide(h.Reject, id, models.DecisionRequest{RejectionReason: "Duplicate of an earlier entry"}, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.NominationDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.State != models.StateRejected {
		t.Errorf("Expected rejected, got %s", detail.State)
	}
	if detail.ApprovedBy == nil || *detail.ApprovedBy != "uploader@wsa.test" {
		t.Errorf("Expected decider to default to the configured uploader, got %v", detail.ApprovedBy)
	}
	if detail.LiveSlug != nil {
		t.Error("Rejected nominations must not get a slug")
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM sync_outbox`); n != 0 {
		t.Errorf("Rejection must not enqueue sync rows, got %d", n)
	}
}

func TestDeleteNomination(t *testing.T) {
	h, db := setupNominationHandler(t)
	id := testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateDraft)

	req := testutil.WithURLParam(testutil.MakeRequest("DELETE", "/", nil, nil), "id", id)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM nominees WHERE email = 'ada@wsa.test'`); n != 0 {
		t.Error("Expected nominee to be deleted with its nomination")
	}

	req = testutil.WithURLParam(testutil.MakeRequest("DELETE", "/", nil, nil), "id", id)
	w = httptest.NewRecorder()
	h.Delete(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestStats(t *testing.T) {
	h, db := setupNominationHandler(t)
	testutil.CreateTestNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateDraft)
	testutil.CreateTestNomination(t, db, "Grace", "Hopper", "grace@wsa.test", "top-recruiter", models.StateSubmitted)

	w := httptest.NewRecorder()
	h.Stats(w, testutil.MakeRequest("GET", "/api/admin/stats", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.Stats
	testutil.AssertJSON(t, w, &stats)
	if stats.ByState[models.StateDraft] != 1 || stats.ByState[models.StateSubmitted] != 1 {
		t.Errorf("Unexpected state counts: %v", stats.ByState)
	}
	if stats.ByType[models.NomineePerson] != 2 {
		t.Errorf("Unexpected type counts: %v", stats.ByType)
	}
}
