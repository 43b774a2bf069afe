package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

func resolveFor(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return resolveError(err, zerolog.Nop(), c)
}

func TestResolveError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "validation rejection",
			err:      domain.NewValidationError("invalid email format"),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "invalid email format",
		},
		{
			name:     "wrapped validation rejection",
			err:      fmt.Errorf("register: %w", domain.NewValidationError("email already registered")),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "email already registered",
		},
		{
			name:     "rate limited",
			err:      domain.ErrRateLimited,
			wantCode: http.StatusTooManyRequests,
			wantMsg:  domain.ErrRateLimited.Error(),
		},
		{
			name:     "identity not found",
			err:      domain.ErrIdentityNotFound,
			wantCode: http.StatusNotFound,
			wantMsg:  "identity not found",
		},
		{
			name:     "alert not found",
			err:      domain.ErrAlertNotFound,
			wantCode: http.StatusNotFound,
			wantMsg:  "alert not found",
		},
		{
			name:     "invalid alert transition",
			err:      fmt.Errorf("%w (from resolved to acknowledged)", domain.ErrInvalidAlertTransition),
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "storage unavailable hides the cause",
			err:      fmt.Errorf("%w: connection refused", domain.ErrStorageUnavailable),
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "temporarily unavailable",
		},
		{
			name:     "echo error passes through",
			err:      echo.NewHTTPError(http.StatusBadRequest, "invalid payload"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid payload",
		},
		{
			name:     "unexpected error stays generic",
			err:      errors.New("bson decode: short document"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := resolveFor(t, tc.err)
			if code != tc.wantCode {
				t.Errorf("code = %d, want %d", code, tc.wantCode)
			}
			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Errorf("message = %q, want %q", msg, tc.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_WritesEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrRateLimited, c)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got == "" {
		t.Fatal("expected a JSON error envelope")
	}
}
