// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
)

func TestCreateSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, TypeSQLite, filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(ctx, conn, TypeSQLite); err != nil {
			t.Fatalf("CreateSchema run %d failed: %v", i+1, err)
		}
	}

	var person, company int
	if err := conn.QueryRow(`SELECT
		SUM(CASE WHEN nominee_type = 'person' THEN 1 ELSE 0 END),
		SUM(CASE WHEN nominee_type = 'company' THEN 1 ELSE 0 END)
		FROM categories`).Scan(&person, &company); err != nil {
		t.Fatal(err)
	}
	if person == 0 || company == 0 {
		t.Errorf("Expected seeded categories of both types, got %d person and %d company", person, company)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, TypeSQLite, filepath.Join(t.TempDir(), "unique.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := CreateSchema(ctx, conn, TypeSQLite); err != nil {
		t.Fatal(err)
	}

	insert := `INSERT INTO voters (id, email, first_name, last_name, created_at) VALUES ($1, 'vic@voters.test', 'Vic', 'Voter', CURRENT_TIMESTAMP)`
	if _, err := conn.Exec(insert, "v1"); err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(insert, "v2")
	if !IsUniqueViolation(err) {
		t.Errorf("Expected unique violation from sqlite, got %v", err)
	}

	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("Expected postgres 23505 to be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("Foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("disk full")) || IsUniqueViolation(nil) {
		t.Error("Unrelated errors are not unique violations")
	}
}

func TestOpenRejectsUnknownType(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"wsa.db", "file:wsa.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"},
		{"file:wsa.db?mode=rwc", "file:wsa.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"},
		{"file:wsa.db?_pragma=journal_mode(WAL)", "file:wsa.db?_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
