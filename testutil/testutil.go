// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/worldstaffingawards/wsa2026/cliparse"
	"github.com/worldstaffingawards/wsa2026/db"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/store"
)

const (
	TestAdminKey   = "test-admin-key"
	TestCronSecret = "test-cron-secret"
)

// SetupTestDB creates a fresh sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.CreateSchema(context.Background(), conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseType:    db.TypeSQLite,
		DatabaseURL:     "test.db",
		AdminKey:        TestAdminKey,
		CronSecret:      TestCronSecret,
		PublicBaseURL:   "https://wsa.test",
		DefaultUploader: "uploader@wsa.test",
	}
}

// PersonCSV builds a person upload with the template header and the given rows
func PersonCSV(rows ...string) string {
	out := "first_name,last_name,job_title,company_name,email,phone,country,linkedin,bio,achievements,why_vote_for_me,headshot_url,category,nominator_name,nominator_email,nominator_company,nominator_job_title,nominator_phone,nominator_country\n"
	for _, r := range rows {
		out += r + "\n"
	}
	return out
}

// PersonRow builds one person CSV line with the given name, email and category
func PersonRow(first, last, email, category string) string {
	return first + "," + last + ",Recruiter,Acme Staffing," + email + ",,USA,,,," +
		"Places hundreds of candidates every year,," + category + ",Nora Nominator,nora@acme.test,Acme,,,"
}

// CreateTestNomination inserts a person nominee and nomination in the given state
func CreateTestNomination(t *testing.T, conn *sql.DB, first, last, email, category, state string) string {
	t.Helper()

	s := store.New(conn)
	ctx := context.Background()

	nominatorID, err := s.FindOrCreateNominator(ctx, models.Nominator{Email: "nominator@wsa.test", Name: "Nominator"})
	if err != nil {
		t.Fatalf("Failed to create nominator: %v", err)
	}
	nominee := models.Nominee{Type: models.NomineePerson, Email: email, FirstName: &first, LastName: &last}
	if err := s.CreateNominee(ctx, &nominee); err != nil {
		t.Fatalf("Failed to create nominee: %v", err)
	}
	nomination := models.Nomination{
		NominatorID: nominatorID,
		NomineeID:   nominee.ID,
		CategoryID:  category,
		State:       state,
		WhyVote:     "Because they are great",
		Source:      models.SourceForm,
	}
	if err := s.CreateNomination(ctx, &nomination); err != nil {
		t.Fatalf("Failed to create nomination: %v", err)
	}
	return nomination.ID
}

// CountRows runs a COUNT query and returns the result
func CountRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeUploadRequest builds a multipart CSV upload request
func MakeUploadRequest(t *testing.T, path, filename, content string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Admin-Key", TestAdminKey)
	return req
}

// WithURLParam attaches a chi route parameter to a request
func WithURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
