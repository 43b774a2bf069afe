package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

type authorizationService struct {
	relationships ports.RelationshipRepository
	log           zerolog.Logger
}

// NewAuthorizationService returns an AuthorizationService backed by the
// read-only relationship store.
func NewAuthorizationService(relationships ports.RelationshipRepository, log zerolog.Logger) ports.AuthorizationService {
	return &authorizationService{relationships: relationships, log: log}
}

// CanViewPortfolio evaluates access in strict precedence order, first match
// wins: owner, matching history, open inquiry, completed booking. A storage
// fault denies and returns domain.ErrStorageUnavailable alongside, so the
// caller can distinguish an outage from a legitimate denial in its logs.
func (s *authorizationService) CanViewPortfolio(ctx context.Context, subjectID, artistID string) (bool, error) {
	if subjectID == artistID {
		return true, nil
	}

	for _, kind := range []domain.RelationshipKind{
		domain.KindMatchingHistory,
		domain.KindInquiry,
		domain.KindConfirmedBooking,
	} {
		rel, err := s.relationships.Find(ctx, kind, subjectID, artistID)
		if err != nil {
			if errors.Is(err, domain.ErrRelationshipNotFound) {
				continue
			}
			s.log.Error().Err(err).
				Str("subject_id", subjectID).
				Str("artist_id", artistID).
				Str("kind", string(kind)).
				Msg("relationship lookup failed, denying access")
			return false, fmt.Errorf("%w: relationship lookup: %v", domain.ErrStorageUnavailable, err)
		}
		if rel.GrantsAccess() {
			return true, nil
		}
	}
	return false, nil
}
