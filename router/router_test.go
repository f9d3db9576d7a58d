// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/worldstaffingawards/wsa2026/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	expected := "World Staffing Awards 2026 API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	admin := map[string]string{"X-Admin-Key": testutil.TestAdminKey}
	cron := map[string]string{"X-Cron-Secret": testutil.TestCronSecret}

	tests := []struct {
		method  string
		path    string
		headers map[string]string
		want    int
	}{
		{"GET", "/api/categories", nil, http.StatusOK},
		{"GET", "/api/nominees", nil, http.StatusOK},
		{"GET", "/api/nominees/nobody", nil, http.StatusNotFound},
		{"GET", "/api/votes/counts", nil, http.StatusOK},
		{"GET", "/api/templates/person.csv", nil, http.StatusOK},
		{"GET", "/api/templates/company.csv", nil, http.StatusOK},
		{"GET", "/api/templates/robot.csv", nil, http.StatusNotFound},
		{"POST", "/api/votes", nil, http.StatusBadRequest},
		{"POST", "/api/nominations", nil, http.StatusBadRequest},
		{"GET", "/api/admin/nominations", admin, http.StatusOK},
		{"GET", "/api/admin/stats", admin, http.StatusOK},
		{"GET", "/api/admin/bulk-upload/batches", admin, http.StatusOK},
		{"GET", "/api/admin/bulk-upload/batches/missing", admin, http.StatusNotFound},
		{"GET", "/api/admin/bulk-upload/batches/missing/errors.csv", admin, http.StatusNotFound},
		{"DELETE", "/api/admin/nominations/missing", admin, http.StatusNotFound},
		{"POST", "/api/sync/nowhere/run", cron, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := testutil.MakeRequest(tt.method, tt.path, nil, tt.headers)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			testutil.AssertStatus(t, w, tt.want)
		})
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	paths := []string{
		"/api/admin/nominations",
		"/api/admin/stats",
		"/api/admin/bulk-upload/batches",
	}
	for _, p := range paths {
		for _, key := range []string{"", "wrong-key"} {
			req := testutil.MakeRequest("GET", p, nil, map[string]string{"X-Admin-Key": key})
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s with key %q: expected 401, got %d", p, key, w.Code)
			}
		}
	}
}

func TestSyncRouteRequiresSecret(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/sync/hubspot/run", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Valid bearer secret, but the test config has no HubSpot token.
	req = testutil.MakeRequest("POST", "/api/sync/hubspot/run", nil,
		map[string]string{"Authorization": "Bearer " + testutil.TestCronSecret})
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestTemplateDownload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/api/templates/person.csv", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "first_name,last_name") {
		t.Errorf("unexpected template header: %q", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("OPTIONS", "/api/votes", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS headers on preflight")
	}
}
