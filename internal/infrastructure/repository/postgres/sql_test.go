package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get slot: %w", sql.ErrNoRows)) {
		t.Fatal("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: connection refused")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: uniqueViolationCode, Constraint: scoreUniqueConstraint}

	t.Run("matches any constraint when unnamed", func(t *testing.T) {
		if !isUniqueViolation(dup, "") {
			t.Fatal("expected true for unique violation")
		}
	})

	t.Run("matches named constraint", func(t *testing.T) {
		if !isUniqueViolation(dup, scoreUniqueConstraint) {
			t.Fatal("expected true for matching constraint")
		}
	})

	t.Run("rejects other constraint", func(t *testing.T) {
		if isUniqueViolation(dup, "workspaces_slug_key") {
			t.Fatal("expected false for different constraint")
		}
	})

	t.Run("matches wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("insert score: %w", dup)
		if !isUniqueViolation(wrapped, scoreUniqueConstraint) {
			t.Fatal("expected true for wrapped pq error")
		}
	})

	t.Run("rejects other code", func(t *testing.T) {
		fk := &pq.Error{Code: "23503"}
		if isUniqueViolation(fk, "") {
			t.Fatal("expected false for foreign key violation")
		}
	})

	t.Run("rejects non-pq error", func(t *testing.T) {
		if isUniqueViolation(errors.New("duplicate key value"), "") {
			t.Fatal("expected false for plain error")
		}
	})
}
