package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
	"github.com/inkmatch/trust-core/internal/pkg/emailaddr"
)

// DomainBlocklist answers domain-reputation questions for the pipeline.
// Implementations hold process-wide state refreshed on a schedule.
type DomainBlocklist interface {
	IsDisposable(domain string) bool
	IsDangerous(domain string) bool
}

// MXResolver checks that a domain can receive mail. Resolution failures and
// timeouts are both treated as "no MX" by the pipeline (fail-closed).
type MXResolver interface {
	HasMX(ctx context.Context, domain string) (bool, error)
}

// ChangeCounterStore persists per-identity email-change counters.
// Get returns (nil, nil) when no record exists.
type ChangeCounterStore interface {
	Get(ctx context.Context, identityID string) (*domain.EmailChangeRecord, error)
	Put(ctx context.Context, record *domain.EmailChangeRecord) error
}

// roleAliases are administrative local parts rejected regardless of domain.
var roleAliases = map[string]struct{}{
	"admin":         {},
	"administrator": {},
	"support":       {},
	"info":          {},
	"contact":       {},
	"noreply":       {},
	"no-reply":      {},
	"postmaster":    {},
	"webmaster":     {},
	"abuse":         {},
	"security":      {},
	"root":          {},
	"sales":         {},
	"billing":       {},
	"help":          {},
}

type identityService struct {
	identities ports.IdentityRepository
	index      ports.IdentityIndexRepository
	counters   ChangeCounterStore
	blocklist  DomainBlocklist
	resolver   MXResolver
	recorder   ports.SecurityRecorder
	locks      *keyedMutex
	log        zerolog.Logger
}

// NewIdentityService returns an IdentityService implementation.
func NewIdentityService(
	identities ports.IdentityRepository,
	index ports.IdentityIndexRepository,
	counters ChangeCounterStore,
	blocklist DomainBlocklist,
	resolver MXResolver,
	recorder ports.SecurityRecorder,
	log zerolog.Logger,
) ports.IdentityService {
	return &identityService{
		identities: identities,
		index:      index,
		counters:   counters,
		blocklist:  blocklist,
		resolver:   resolver,
		recorder:   recorder,
		locks:      newKeyedMutex(),
		log:        log,
	}
}

// ValidateAndRegister runs the pipeline for a freshly created identity.
// Checks are strictly ordered and short-circuit on first failure. The
// identity document was created before validation ran, so every failure
// path performs the compensating delete.
func (s *identityService) ValidateAndRegister(ctx context.Context, identityID, email string) error {
	if err := s.screenAddress(ctx, email); err != nil {
		return s.rejectRegistration(ctx, identityID, email, err)
	}

	normalized := emailaddr.Normalize(email)
	unlock := s.locks.Lock(normalized)
	defer unlock()

	// Duplicate check against the index, then claim. The unique index on the
	// normalized email closes the remaining check-then-insert race: a lost
	// race surfaces as ErrEmailTaken from Claim.
	existing, err := s.index.FindByNormalized(ctx, normalized)
	switch {
	case err == nil && existing.IdentityID == identityID:
		return nil // re-validation of an already registered identity
	case err == nil:
		return s.rejectRegistration(ctx, identityID, email, domain.NewValidationError("email already registered"))
	case !errors.Is(err, domain.ErrIdentityNotFound):
		return s.rejectRegistration(ctx, identityID, email, fmt.Errorf("%w: index lookup: %v", domain.ErrStorageUnavailable, err))
	}

	entry := &domain.IdentityIndexEntry{
		EmailNormalized: normalized,
		IdentityID:      identityID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.index.Claim(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return s.rejectRegistration(ctx, identityID, email, domain.NewValidationError("email already registered"))
		}
		return s.rejectRegistration(ctx, identityID, email, fmt.Errorf("%w: index claim: %v", domain.ErrStorageUnavailable, err))
	}

	s.log.Info().Str("identity_id", identityID).Str("email", emailaddr.Mask(email)).Msg("identity registered")
	return nil
}

// ChangeEmail applies the rate limit, re-runs the pipeline against the new
// address, moves the index entry, applies the mutation, and audits it.
func (s *identityService) ChangeEmail(ctx context.Context, identityID, previousEmail, newEmail string) error {
	unlock := s.locks.Lock(identityID)
	defer unlock()

	if _, err := s.identities.FindByID(ctx, identityID); err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return err
		}
		return fmt.Errorf("%w: identity lookup: %v", domain.ErrStorageUnavailable, err)
	}

	now := time.Now().UTC()
	record, err := s.counters.Get(ctx, identityID)
	if err != nil {
		return fmt.Errorf("%w: change counter read: %v", domain.ErrStorageUnavailable, err)
	}
	if record.Exhausted(now) {
		s.recorder.Record(ctx, domain.SecurityEvent{
			EventType: domain.EventEmailChangeRejected,
			SubjectID: identityID,
			Severity:  domain.SeverityMedium,
			Timestamp: now,
			Metadata: map[string]string{
				"reason":         "rate_limited",
				"previous_email": emailaddr.Mask(previousEmail),
				"new_email":      emailaddr.Mask(newEmail),
			},
		})
		return domain.ErrRateLimited
	}

	if err := s.screenAddress(ctx, newEmail); err != nil {
		return s.rejectChange(ctx, identityID, previousEmail, newEmail, err)
	}

	newNormalized := emailaddr.Normalize(newEmail)
	oldNormalized := emailaddr.Normalize(previousEmail)

	claimedNew := false
	if newNormalized != oldNormalized {
		existing, err := s.index.FindByNormalized(ctx, newNormalized)
		switch {
		case err == nil && existing.IdentityID != identityID:
			return s.rejectChange(ctx, identityID, previousEmail, newEmail, domain.NewValidationError("email already registered"))
		case err != nil && !errors.Is(err, domain.ErrIdentityNotFound):
			return fmt.Errorf("%w: index lookup: %v", domain.ErrStorageUnavailable, err)
		}

		if existing == nil {
			entry := &domain.IdentityIndexEntry{
				EmailNormalized: newNormalized,
				IdentityID:      identityID,
				CreatedAt:       now,
			}
			if err := s.index.Claim(ctx, entry); err != nil {
				if errors.Is(err, domain.ErrEmailTaken) {
					return s.rejectChange(ctx, identityID, previousEmail, newEmail, domain.NewValidationError("email already registered"))
				}
				return fmt.Errorf("%w: index claim: %v", domain.ErrStorageUnavailable, err)
			}
			claimedNew = true
		}
	}

	// The counter advances before the identity document mutates: a counter
	// write failure rejects the change, so an uncounted change is impossible.
	count := 1
	if record.WindowOpen(now) {
		count = record.ChangeCount + 1
	}
	if err := s.counters.Put(ctx, &domain.EmailChangeRecord{
		IdentityID:  identityID,
		ChangeCount: count,
		LastChange:  now,
	}); err != nil {
		s.rollbackClaim(ctx, identityID, newNormalized, claimedNew)
		return fmt.Errorf("%w: change counter write: %v", domain.ErrStorageUnavailable, err)
	}

	if err := s.identities.UpdateEmail(ctx, identityID, newEmail, newNormalized); err != nil {
		s.rollbackClaim(ctx, identityID, newNormalized, claimedNew)
		return fmt.Errorf("%w: email update: %v", domain.ErrStorageUnavailable, err)
	}

	if newNormalized != oldNormalized {
		if err := s.index.Remove(ctx, oldNormalized); err != nil {
			s.log.Error().Err(err).Str("identity_id", identityID).Msg("failed to remove stale index entry")
		}
	}

	// Audit trail carries masked addresses only.
	s.recorder.Record(ctx, domain.SecurityEvent{
		EventType: domain.EventEmailChanged,
		SubjectID: identityID,
		Severity:  domain.SeverityLow,
		Timestamp: now,
		Metadata: map[string]string{
			"previous_email": emailaddr.Mask(previousEmail),
			"new_email":      emailaddr.Mask(newEmail),
			"change_count":   fmt.Sprintf("%d", count),
		},
	})

	s.log.Info().Str("identity_id", identityID).Str("new_email", emailaddr.Mask(newEmail)).Int("change_count", count).Msg("email changed")
	return nil
}

// screenAddress runs the pure, read-only checks (format, disposable domain,
// dangerous domain, role alias, MX) in strict order.
func (s *identityService) screenAddress(ctx context.Context, email string) error {
	if !emailaddr.ValidFormat(email) {
		return domain.NewValidationError("invalid email format")
	}

	local, dom, _ := emailaddr.Split(strings.ToLower(email))

	if s.blocklist.IsDisposable(dom) {
		return domain.NewValidationError("disposable email addresses are not allowed")
	}
	if s.blocklist.IsDangerous(dom) {
		return domain.NewValidationError("email domain not allowed")
	}
	if _, role := roleAliases[local]; role {
		return domain.NewValidationError("role-based email addresses are not allowed")
	}

	hasMX, err := s.resolver.HasMX(ctx, dom)
	if err != nil {
		s.log.Warn().Err(err).Str("domain", dom).Msg("mx resolution failed")
		return domain.NewValidationError("email domain cannot receive mail")
	}
	if !hasMX {
		return domain.NewValidationError("email domain cannot receive mail")
	}
	return nil
}

// rejectRegistration deletes the pre-created identity document and records
// the rejection before returning the original error.
func (s *identityService) rejectRegistration(ctx context.Context, identityID, email string, cause error) error {
	if err := s.identities.Delete(ctx, identityID); err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
		s.log.Error().Err(err).Str("identity_id", identityID).Msg("compensating identity delete failed")
	}

	var ve *domain.ValidationError
	if errors.As(cause, &ve) {
		s.recorder.Record(ctx, domain.SecurityEvent{
			EventType: domain.EventRegistrationRejected,
			SubjectID: identityID,
			Severity:  domain.SeverityLow,
			Timestamp: time.Now().UTC(),
			Metadata: map[string]string{
				"reason": ve.Reason,
				"email":  emailaddr.Mask(email),
			},
		})
	}
	return cause
}

// rollbackClaim removes the index entry claimed for the new address. A no-op
// when the entry existed before this change.
func (s *identityService) rollbackClaim(ctx context.Context, identityID, normalized string, claimed bool) {
	if !claimed {
		return
	}
	if err := s.index.Remove(ctx, normalized); err != nil {
		s.log.Error().Err(err).Str("identity_id", identityID).Msg("failed to roll back index entry")
	}
}

func (s *identityService) rejectChange(ctx context.Context, identityID, previousEmail, newEmail string, cause error) error {
	var ve *domain.ValidationError
	if errors.As(cause, &ve) {
		s.recorder.Record(ctx, domain.SecurityEvent{
			EventType: domain.EventEmailChangeRejected,
			SubjectID: identityID,
			Severity:  domain.SeverityLow,
			Timestamp: time.Now().UTC(),
			Metadata: map[string]string{
				"reason":         ve.Reason,
				"previous_email": emailaddr.Mask(previousEmail),
				"new_email":      emailaddr.Mask(newEmail),
			},
		})
	}
	return cause
}
