package ports

import (
	"context"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

// RelationshipRepository reads the externally owned relationship store.
// The core never writes these records.
type RelationshipRepository interface {
	// Find returns the live record of the given kind for the
	// (customer, artist) pair, or domain.ErrRelationshipNotFound.
	Find(ctx context.Context, kind domain.RelationshipKind, customerID, artistID string) (*domain.Relationship, error)
}
