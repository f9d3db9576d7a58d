// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/worldstaffingawards/wsa2026/approval"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
	"github.com/worldstaffingawards/wsa2026/testutil"
)

func setupPublicHandler(t *testing.T) (*PublicHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewPublicHandler(db, testutil.GetTestConfig()), db
}

// approvedNomination creates a nomination and approves it so it is live
func approvedNomination(t *testing.T, db *sql.DB, first, last, email, category string) string {
	t.Helper()
	id := testutil.CreateTestNomination(t, db, first, last, email, category, models.StateSubmitted)
	svc := approval.New(store.New(db), "https://wsa.test")
	if _, err := svc.Approve(context.Background(), id, approval.Decision{DecidedBy: "admin@wsa.test"}); err != nil {
		t.Fatalf("Failed to approve nomination: %v", err)
	}
	return id
}

func voteRequest(nominationID, email string) models.CastVoteRequest {
	return models.CastVoteRequest{
		NominationID: nominationID,
		Email:        email,
		FirstName:    "Vic",
		LastName:     "Voter",
		Company:      "Acme",
	}
}

func castVote(h *PublicHandler, body any) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/api/votes", body, map[string]string{
		"X-Forwarded-For": "203.0.113.9",
		"User-Agent":      "wsa-test",
	})
	w := httptest.NewRecorder()
	h.CastVote(w, req)
	return w
}

func TestCategories(t *testing.T) {
	h, _ := setupPublicHandler(t)

	w := httptest.NewRecorder()
	h.Categories(w, testutil.MakeRequest("GET", "/api/categories", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var categories []models.Category
	testutil.AssertJSON(t, w, &categories)
	types := map[string]int{}
	for _, c := range categories {
		types[c.NomineeType]++
	}
	if types[models.NomineePerson] == 0 || types[models.NomineeCompany] == 0 {
		t.Errorf("Expected seeded person and company categories, got %v", types)
	}
}

func TestCastVote(t *testing.T) {
	h, db := setupPublicHandler(t)
	id := approvedNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter")

	w := castVote(h, voteRequest(id, "Vic@Voters.test"))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.VoteID == "" || resp.TotalVotes != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM votes WHERE user_agent = 'wsa-test' AND ip_hash <> ''`); n != 1 {
		t.Error("Expected vote to record user agent and hashed ip")
	}
	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM voters WHERE email = 'vic@voters.test'`); n != 1 {
		t.Error("Expected voter email to be normalized")
	}

	// One vote per voter per category
	testutil.AssertStatus(t, castVote(h, voteRequest(id, "vic@voters.test")), http.StatusConflict)
}

func TestCastVoteRejected(t *testing.T) {
	h, db := setupPublicHandler(t)
	live := approvedNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter")
	draft := testutil.CreateTestNomination(t, db, "Grace", "Hopper", "grace@wsa.test", "top-recruiter", models.StateDraft)

	noName := voteRequest(live, "vic@voters.test")
	noName.FirstName = ""

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing nomination id", voteRequest("", "vic@voters.test"), http.StatusBadRequest},
		{"bad email", voteRequest(live, "vic"), http.StatusBadRequest},
		{"missing first name", noName, http.StatusBadRequest},
		{"unknown nomination", voteRequest("missing", "vic@voters.test"), http.StatusNotFound},
		{"not approved", voteRequest(draft, "vic@voters.test"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertStatus(t, castVote(h, tt.body), tt.want)
		})
	}

	if n := testutil.CountRows(t, db, `SELECT COUNT(*) FROM votes`); n != 0 {
		t.Errorf("Expected no votes, got %d", n)
	}
}

func TestDirectoryAndNominee(t *testing.T) {
	h, db := setupPublicHandler(t)
	approvedNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter")
	testutil.CreateTestNomination(t, db, "Grace", "Hopper", "grace@wsa.test", "top-recruiter", models.StateSubmitted)

	w := httptest.NewRecorder()
	h.Directory(w, testutil.MakeRequest("GET", "/api/nominees?category=top-recruiter", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var entries []models.DirectoryEntry
	testutil.AssertJSON(t, w, &entries)
	if len(entries) != 1 || entries[0].DisplayName != "Ada Lovelace" {
		t.Fatalf("Expected only the approved nominee, got %+v", entries)
	}

	req := testutil.WithURLParam(testutil.MakeRequest("GET", "/", nil, nil), "slug", entries[0].LiveSlug)
	w = httptest.NewRecorder()
	h.Nominee(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var profile models.NomineeProfile
	testutil.AssertJSON(t, w, &profile)
	if profile.WhyVote == "" || profile.LiveURL != "https://wsa.test/nominee/ada-lovelace" {
		t.Errorf("Unexpected profile: %+v", profile)
	}

	req = testutil.WithURLParam(testutil.MakeRequest("GET", "/", nil, nil), "slug", "grace-hopper")
	w = httptest.NewRecorder()
	h.Nominee(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestVoteCounts(t *testing.T) {
	h, db := setupPublicHandler(t)
	id := approvedNomination(t, db, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter")
	if _, err := db.Exec(`UPDATE nominations SET additional_votes = 5 WHERE id = $1`, id); err != nil {
		t.Fatal(err)
	}
	testutil.AssertStatus(t, castVote(h, voteRequest(id, "vic@voters.test")), http.StatusCreated)

	w := httptest.NewRecorder()
	h.Counts(w, testutil.MakeRequest("GET", "/api/votes/counts?category=top-recruiter", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var counts []models.VoteCount
	testutil.AssertJSON(t, w, &counts)
	if len(counts) != 1 {
		t.Fatalf("Expected one count, got %+v", counts)
	}
	if counts[0].Votes != 1 || counts[0].TotalVotes != 6 {
		t.Errorf("Expected 1 real vote and total 6, got %+v", counts[0])
	}
}

func TestTemplate(t *testing.T) {
	h, _ := setupPublicHandler(t)

	for _, typ := range []string{"person", "company"} {
		req := testutil.WithURLParam(testutil.MakeRequest("GET", "/", nil, nil), "type", typ)
		w := httptest.NewRecorder()
		h.Template(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
		if w.Body.Len() == 0 {
			t.Errorf("Expected %s template body", typ)
		}
	}

	req := testutil.WithURLParam(testutil.MakeRequest("GET", "/", nil, nil), "type", "robot")
	w := httptest.NewRecorder()
	h.Template(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
