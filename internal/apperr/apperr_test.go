package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindInsufficient, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindFatalConfig, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.kind.HTTPStatus(); got != tc.want {
			t.Fatalf("kind %d status = %d; want %d", tc.kind, got, tc.want)
		}
	}
}

func TestFrom(t *testing.T) {
	orig := NotFound("SWORD_NOT_FOUND", "sword not found")

	wrapped := fmt.Errorf("load sword: %w", orig)
	if got := From(wrapped); got.Code != "SWORD_NOT_FOUND" {
		t.Fatalf("From(wrapped).Code = %s; want SWORD_NOT_FOUND", got.Code)
	}

	plain := errors.New("boom")
	if got := From(plain); got.Kind != KindInternal {
		t.Fatalf("From(plain).Kind = %d; want internal", got.Kind)
	}
	if From(nil) != nil {
		t.Fatal("From(nil) should be nil")
	}
}

func TestIsMatchesAfterWrap(t *testing.T) {
	base := Conflict("ALREADY_PURCHASED", "item already purchased")
	withCause := base.Wrap(errors.New("row exists"))

	if !errors.Is(withCause, base) {
		t.Fatal("wrapped error should match its base via errors.Is")
	}

	other := Conflict("ALREADY_SOLD", "sword already sold")
	if errors.Is(withCause, other) {
		t.Fatal("different codes must not match")
	}
}
