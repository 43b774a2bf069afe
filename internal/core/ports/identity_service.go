package ports

import "context"

// IdentityService gates identity creation and email mutation behind the
// validation pipeline and the change rate limiter.
type IdentityService interface {
	// ValidateAndRegister runs the full pipeline for a freshly created
	// identity. On validation failure the identity document is removed
	// (compensating delete) and a *domain.ValidationError is returned.
	ValidateAndRegister(ctx context.Context, identityID, email string) error

	// ChangeEmail applies the sliding-window rate limit, re-validates the new
	// address, moves the index entry, and records a masked audit event.
	// Returns domain.ErrRateLimited or a *domain.ValidationError on rejection.
	ChangeEmail(ctx context.Context, identityID, previousEmail, newEmail string) error
}
