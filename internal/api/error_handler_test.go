package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

func handleError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return rec.Code, resp.Error
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"store unavailable", fmt.Errorf("find cart: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{"merge incomplete", fmt.Errorf("%w: write failed", domain.ErrMergeIncomplete), http.StatusConflict},
		{"cart not found", domain.ErrCartNotFound, http.StatusNotFound},
		{"item not found", domain.ErrItemNotFound, http.StatusNotFound},
		{"product not found", domain.ErrProductNotFound, http.StatusNotFound},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := handleError(t, tc.err)
			if code != tc.code {
				t.Errorf("expected %d, got %d", tc.code, code)
			}
		})
	}
}

func TestErrorHandler_MergeIncompleteWinsOverStoreUnavailable(t *testing.T) {
	// A merge that failed because the store went away is still a merge
	// failure to the client: retry the merge, not the individual write.
	err := fmt.Errorf("%w: %w", domain.ErrMergeIncomplete, domain.ErrStoreUnavailable)
	code, msg := handleError(t, err)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if msg != "cart merge incomplete, retry the merge" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := handleError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if msg != "missing authorization header" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestErrorHandler_UnexpectedErrorHidesDetails(t *testing.T) {
	code, msg := handleError(t, errors.New("pq: connection refused"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Errorf("internal details must not leak, got %q", msg)
	}
}
