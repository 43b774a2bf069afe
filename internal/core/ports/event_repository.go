package ports

import (
	"context"
	"time"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

// SecurityEventRepository is the append-only event log. Events are never
// mutated or deleted by the core.
type SecurityEventRepository interface {
	// Append persists the event and returns its id.
	Append(ctx context.Context, event *domain.SecurityEvent) (string, error)

	// FetchSince returns events with timestamp >= since, newest first,
	// bounded by limit.
	FetchSince(ctx context.Context, since time.Time, limit int64) ([]*domain.SecurityEvent, error)

	// CountSince returns how many events fall in the window, so the detector
	// can report truncation when the count exceeds its fetch bound.
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// AlertRepository persists detector alerts and serves the operator workflow.
type AlertRepository interface {
	Insert(ctx context.Context, alert *domain.SecurityAlert) error
	FindByID(ctx context.Context, alertID string) (*domain.SecurityAlert, error)
	// List returns alerts newest first; status filters when non-empty.
	List(ctx context.Context, status domain.AlertStatus, limit int64) ([]*domain.SecurityAlert, error)
	UpdateStatus(ctx context.Context, alertID string, status domain.AlertStatus) error
}
