package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

type stubAlertRepo struct {
	alerts map[string]*domain.SecurityAlert
}

func newStubAlertRepo(alerts ...*domain.SecurityAlert) *stubAlertRepo {
	r := &stubAlertRepo{alerts: make(map[string]*domain.SecurityAlert)}
	for _, a := range alerts {
		r.alerts[a.ID] = a
	}
	return r
}

func (r *stubAlertRepo) Insert(_ context.Context, a *domain.SecurityAlert) error {
	r.alerts[a.ID] = a
	return nil
}

func (r *stubAlertRepo) FindByID(_ context.Context, id string) (*domain.SecurityAlert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}
	return a, nil
}

func (r *stubAlertRepo) List(_ context.Context, status domain.AlertStatus, _ int64) ([]*domain.SecurityAlert, error) {
	var out []*domain.SecurityAlert
	for _, a := range r.alerts {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAlertRepo) UpdateStatus(_ context.Context, id string, status domain.AlertStatus) error {
	a, ok := r.alerts[id]
	if !ok {
		return domain.ErrAlertNotFound
	}
	a.Status = status
	return nil
}

func activeAlert(id string) *domain.SecurityAlert {
	return &domain.SecurityAlert{
		ID:        id,
		AlertType: domain.AlertHighFrequencyAccess,
		Severity:  domain.SeverityHigh,
		Timestamp: time.Now().UTC(),
		Status:    domain.AlertActive,
	}
}

func TestAlertHandler_List_UnknownStatusRejected(t *testing.T) {
	h := NewAlertHandler(newStubAlertRepo())
	c, _ := newTestContext(t, http.MethodGet, "/v1/alerts?status=bogus", "")

	err := h.List(c)
	if err == nil {
		t.Fatal("expected rejection of unknown status")
	}
}

func TestAlertHandler_UpdateStatus_Acknowledge(t *testing.T) {
	repo := newStubAlertRepo(activeAlert("alert-1"))
	h := NewAlertHandler(repo)

	c, w := newTestContext(t, http.MethodPatch, "/v1/alerts/alert-1/status", `{"status":"acknowledged"}`)
	c.SetParamNames("id")
	c.SetParamValues("alert-1")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if repo.alerts["alert-1"].Status != domain.AlertAcknowledged {
		t.Errorf("status = %q", repo.alerts["alert-1"].Status)
	}
}

func TestAlertHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	resolved := activeAlert("alert-1")
	resolved.Status = domain.AlertResolved
	h := NewAlertHandler(newStubAlertRepo(resolved))

	c, _ := newTestContext(t, http.MethodPatch, "/v1/alerts/alert-1/status", `{"status":"acknowledged"}`)
	c.SetParamNames("id")
	c.SetParamValues("alert-1")

	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrInvalidAlertTransition) {
		t.Fatalf("expected ErrInvalidAlertTransition, got: %v", err)
	}
}

func TestAlertHandler_UpdateStatus_NotFound(t *testing.T) {
	h := NewAlertHandler(newStubAlertRepo())

	c, _ := newTestContext(t, http.MethodPatch, "/v1/alerts/ghost/status", `{"status":"acknowledged"}`)
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got: %v", err)
	}
}
