package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubIdentityService struct {
	registerErr error
	changeErr   error
	registered  []string
	changed     []string
}

func (s *stubIdentityService) ValidateAndRegister(_ context.Context, identityID, email string) error {
	if s.registerErr != nil {
		return s.registerErr
	}
	s.registered = append(s.registered, identityID+":"+email)
	return nil
}

func (s *stubIdentityService) ChangeEmail(_ context.Context, identityID, previous, next string) error {
	if s.changeErr != nil {
		return s.changeErr
	}
	s.changed = append(s.changed, identityID+":"+previous+"->"+next)
	return nil
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestIdentityHandler_Validate_OK(t *testing.T) {
	svc := &stubIdentityService{}
	h := NewIdentityHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/identities/validate",
		`{"identity_id":"id-1","email":"user@example.com"}`)

	if err := h.Validate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.registered) != 1 || svc.registered[0] != "id-1:user@example.com" {
		t.Errorf("service not invoked correctly: %v", svc.registered)
	}
}

func TestIdentityHandler_Validate_MissingFields(t *testing.T) {
	h := NewIdentityHandler(&stubIdentityService{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/identities/validate", `{"email":"user@example.com"}`)

	err := h.Validate(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got: %v", err)
	}
}

func TestIdentityHandler_Validate_RejectionPropagates(t *testing.T) {
	svc := &stubIdentityService{registerErr: domain.NewValidationError("email already registered")}
	h := NewIdentityHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/v1/identities/validate",
		`{"identity_id":"id-1","email":"user@example.com"}`)

	err := h.Validate(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError to propagate, got: %v", err)
	}
}

func TestIdentityHandler_ChangeEmail_OK(t *testing.T) {
	svc := &stubIdentityService{}
	h := NewIdentityHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/identities/id-1/email",
		`{"previous_email":"a@example.com","new_email":"b@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := h.ChangeEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.changed) != 1 {
		t.Errorf("change not invoked: %v", svc.changed)
	}
}

func TestIdentityHandler_ChangeEmail_RateLimitedPropagates(t *testing.T) {
	svc := &stubIdentityService{changeErr: domain.ErrRateLimited}
	h := NewIdentityHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/v1/identities/id-1/email",
		`{"previous_email":"a@example.com","new_email":"b@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := h.ChangeEmail(c); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got: %v", err)
	}
}
