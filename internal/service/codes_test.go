package service

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func codeCollision() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "user_swords_code_key"}
}

func TestWithUniqueCode_RetriesOnCollision(t *testing.T) {
	attempts := 0
	seen := map[string]bool{}
	err := withUniqueCode(func(code string) error {
		attempts++
		if seen[code] {
			t.Fatalf("same code generated twice: %s", code)
		}
		seen[code] = true
		if attempts < 3 {
			return codeCollision()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithUniqueCode_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := withUniqueCode(func(code string) error {
		attempts++
		return codeCollision()
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != codeMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", codeMaxAttempts, attempts)
	}
}

func TestWithUniqueCode_StopsOnOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	attempts := 0
	err := withUniqueCode(func(code string) error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestWithUniqueCode_DoesNotRetryNonCodeUniques(t *testing.T) {
	nameDup := &pgconn.PgError{Code: "23505", ConstraintName: "material_types_name_key"}
	attempts := 0
	err := withUniqueCode(func(code string) error {
		attempts++
		return nameDup
	})
	if err == nil {
		t.Fatal("expected the name violation to surface")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
