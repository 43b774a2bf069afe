package ports

import (
	"context"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

// IdentityRepository reads and mutates identity documents. Creation happens
// upstream before validation runs; Delete is the compensating action when
// post-creation validation fails.
type IdentityRepository interface {
	FindByID(ctx context.Context, identityID string) (*domain.Identity, error)
	UpdateEmail(ctx context.Context, identityID, email, emailNormalized string) error
	Delete(ctx context.Context, identityID string) error
}

// IdentityIndexRepository enforces global email uniqueness.
type IdentityIndexRepository interface {
	// FindByNormalized returns the entry owning the normalized email, or
	// domain.ErrIdentityNotFound when none exists.
	FindByNormalized(ctx context.Context, emailNormalized string) (*domain.IdentityIndexEntry, error)

	// Claim inserts the entry, relying on a unique index on the normalized
	// email. Returns domain.ErrEmailTaken when a different identity already
	// holds the entry.
	Claim(ctx context.Context, entry *domain.IdentityIndexEntry) error

	// Remove drops the entry for the normalized email, used when the owning
	// identity changes email or is deleted.
	Remove(ctx context.Context, emailNormalized string) error
}
