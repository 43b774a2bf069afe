package ports

import (
	"context"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

// AuthorizationService answers portfolio access questions. Evaluation is a
// pure read; callers log the outcome.
type AuthorizationService interface {
	// CanViewPortfolio reports whether subject may view the artist's
	// portfolio. A storage fault yields (false, domain.ErrStorageUnavailable)
	// so callers can log the fault while still denying.
	CanViewPortfolio(ctx context.Context, subjectID, artistID string) (bool, error)
}

// SecurityRecorder appends security events fail-open: a failed append is
// logged and counted, never surfaced to the triggering operation.
type SecurityRecorder interface {
	Record(ctx context.Context, event domain.SecurityEvent)
}

// ObjectEventInput is a raw object-storage finalize notification.
type ObjectEventInput struct {
	Name        string
	Size        int64
	ContentType string
}

// ObjectIntakeService screens finalized uploads and logs suspicious ones.
type ObjectIntakeService interface {
	// ScreenObject returns a *domain.ValidationError when the object is
	// rejected by the upload policy.
	ScreenObject(ctx context.Context, in ObjectEventInput) error
}
