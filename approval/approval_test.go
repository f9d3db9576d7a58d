// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/worldstaffingawards/wsa2026/bulkupload"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
	"github.com/worldstaffingawards/wsa2026/testutil"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ada Lovelace", "ada-lovelace"},
		{"  José  Núñez ", "jose-nunez"},
		{"O'Brien & Sons, Ltd.", "obrien-and-sons-ltd"},
		{"Acme--Staffing!!", "acme-staffing"},
		{"Łukasz Čapek", "lukasz-capek"},
		{"Şükrü Öztürk", "sukru-ozturk"},
		{"Søren Ødegård", "soren-odegard"},
		{"Ольга Петрова", "olga-petrova"},
		{"王伟", "王伟"},
		{"!!!", "nominee"},
		{"", "nominee"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := Slugify(strings.Repeat("a b ", 60))
	if len(long) > 80 || strings.HasSuffix(long, "-") {
		t.Errorf("Expected slug trimmed to 80 chars without trailing dash, got %q", long)
	}

	wide := Slugify(strings.Repeat("王", 40))
	if len(wide) > 80 || !utf8.ValidString(wide) {
		t.Errorf("Expected slug cut on a rune boundary, got %q", wide)
	}
}

func TestLiveURL(t *testing.T) {
	svc := New(nil, "https://awards.example/")
	if got := svc.LiveURL("ada-lovelace"); got != "https://awards.example/nominee/ada-lovelace" {
		t.Errorf("unexpected live url %q", got)
	}
	if got := svc.LiveURL("王伟"); got != "https://awards.example/nominee/%E7%8E%8B%E4%BC%9F" {
		t.Errorf("expected non-ASCII slug to be escaped, got %q", got)
	}
}

func TestApprove(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := New(store.New(conn), "https://wsa.test/")
	ctx := context.Background()

	id := testutil.CreateTestNomination(t, conn, "Ada", "Lovelace", "ada@wsa.test", "top-recruiter", models.StateDraft)

	d, err := svc.Approve(ctx, id, Decision{DecidedBy: "admin@wsa.test", AdminNotes: "Strong case"})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if d.State != models.StateApproved {
		t.Errorf("Expected approved, got %s", d.State)
	}
	if d.LiveURL == nil || *d.LiveURL != "https://wsa.test/nominee/ada-lovelace" {
		t.Errorf("Unexpected live URL: %v", d.LiveURL)
	}
	if !d.SyncPending {
		t.Error("Expected sync_pending to be set")
	}
	if d.ApprovedBy == nil || *d.ApprovedBy != "admin@wsa.test" || d.ApprovedAt == nil {
		t.Error("Expected approval metadata")
	}
	if d.AdminNotes == nil || *d.AdminNotes != "Strong case" {
		t.Errorf("Expected admin notes, got %v", d.AdminNotes)
	}

	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM sync_outbox WHERE nomination_id = $1 AND status = 'pending'`, id); n != 2 {
		t.Errorf("Expected 2 pending outbox rows, got %d", n)
	}

	if _, err := svc.Approve(ctx, id, Decision{DecidedBy: "admin@wsa.test"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition on second approval, got %v", err)
	}
	if _, err := svc.Reject(ctx, id, Decision{RejectionReason: "late"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition rejecting an approved nomination, got %v", err)
	}
}

func TestApproveSlugCollision(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := New(store.New(conn), "https://wsa.test")
	ctx := context.Background()

	want := []string{"ada-lovelace", "ada-lovelace-2", "ada-lovelace-3"}
	for i, email := range []string{"a1@wsa.test", "a2@wsa.test", "a3@wsa.test"} {
		id := testutil.CreateTestNomination(t, conn, "Ada", "Lovelace", email, "top-recruiter", models.StateSubmitted)
		d, err := svc.Approve(ctx, id, Decision{DecidedBy: "admin"})
		if err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if *d.LiveSlug != want[i] {
			t.Errorf("Expected slug %s, got %s", want[i], *d.LiveSlug)
		}
	}
}

func TestReject(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := New(store.New(conn), "https://wsa.test")
	ctx := context.Background()

	id := testutil.CreateTestNomination(t, conn, "Bo", "Li", "bo@wsa.test", "top-recruiter", models.StateSubmitted)

	if _, err := svc.Reject(ctx, id, Decision{RejectionReason: "   "}); !errors.Is(err, ErrRejectionReasonRequired) {
		t.Fatalf("Expected ErrRejectionReasonRequired, got %v", err)
	}

	d, err := svc.Reject(ctx, id, Decision{DecidedBy: "admin", RejectionReason: "Not eligible"})
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if d.State != models.StateRejected {
		t.Errorf("Expected rejected, got %s", d.State)
	}
	if d.RejectionReason == nil || *d.RejectionReason != "Not eligible" {
		t.Errorf("Expected rejection reason, got %v", d.RejectionReason)
	}
	if d.SyncPending || d.LiveURL != nil {
		t.Error("Rejection must not assign a live URL or trigger sync")
	}
	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM sync_outbox`); n != 0 {
		t.Errorf("Expected no outbox rows, got %d", n)
	}

	if _, err := svc.Approve(ctx, id, Decision{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition approving a rejected nomination, got %v", err)
	}
}

func TestDecisionOnMissingNomination(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := New(store.New(conn), "https://wsa.test")

	if _, err := svc.Approve(context.Background(), "missing", Decision{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), "missing", Decision{RejectionReason: "x"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestApproveBatch(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	svc := New(st, "https://wsa.test")
	ctx := context.Background()

	resp, err := bulkupload.New(st, "uploader@wsa.test").Upload(ctx, bulkupload.Upload{
		Filename: "batch.csv",
		Body: strings.NewReader(testutil.PersonCSV(
			testutil.PersonRow("Ada", "Lovelace", "ada@wsa.test", "top-recruiter"),
			testutil.PersonRow("Grace", "Hopper", "grace@wsa.test", "top-recruiter"),
			testutil.PersonRow("Bad", "Row", "not-an-email", "top-recruiter"),
		)),
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.ApproveBatch(ctx, resp.BatchID, Decision{DecidedBy: "admin"})
	if err != nil {
		t.Fatalf("ApproveBatch failed: %v", err)
	}
	if res.Approved != 2 || len(res.Failed) != 0 {
		t.Errorf("Expected 2 approved, got %+v", res)
	}
	if n := testutil.CountRows(t, conn, `SELECT COUNT(*) FROM nominations WHERE upload_batch_id = $1 AND state = 'approved'`, resp.BatchID); n != 2 {
		t.Errorf("Expected 2 approved nominations, got %d", n)
	}

	res, err = svc.ApproveBatch(ctx, resp.BatchID, Decision{DecidedBy: "admin"})
	if err != nil || res.Approved != 0 {
		t.Errorf("Second batch approval should be a no-op, got %+v, %v", res, err)
	}

	if _, err := svc.ApproveBatch(ctx, "missing", Decision{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown batch, got %v", err)
	}
}
