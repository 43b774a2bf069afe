package domain

import (
	"errors"
	"time"
)

// Identity is an account that owns a globally unique email address.
type Identity struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	Email           string    `json:"email" bson:"email"`
	EmailNormalized string    `json:"email_normalized" bson:"email_normalized"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// IdentityIndexEntry maps a normalized email to its owning identity.
// At most one live entry exists per normalized email.
type IdentityIndexEntry struct {
	EmailNormalized string    `json:"email_normalized" bson:"email_normalized"`
	IdentityID      string    `json:"identity_id" bson:"identity_id"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// EmailChangeWindow is the sliding window applied to email changes.
const EmailChangeWindow = 24 * time.Hour

// MaxEmailChangesPerWindow caps how often one identity may change its
// email within EmailChangeWindow.
const MaxEmailChangesPerWindow = 3

// EmailChangeRecord is the per-identity sliding-window change counter.
// The window is implicit: if LastChange is older than EmailChangeWindow,
// the count resets to 1 on the next change.
type EmailChangeRecord struct {
	IdentityID  string    `json:"identity_id"`
	ChangeCount int       `json:"change_count"`
	LastChange  time.Time `json:"last_change"`
}

// WindowOpen reports whether the record still counts against the limit at now.
func (r *EmailChangeRecord) WindowOpen(now time.Time) bool {
	return r != nil && now.Sub(r.LastChange) <= EmailChangeWindow
}

// Exhausted reports whether a further change must be rejected at now.
func (r *EmailChangeRecord) Exhausted(now time.Time) bool {
	return r.WindowOpen(now) && r.ChangeCount >= MaxEmailChangesPerWindow
}

// ValidationError rejects an identity mutation with a coarse,
// user-presentable reason. Detailed causes go to the operational log only.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidationError builds a ValidationError with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrRateLimited      = errors.New("too many email changes, try later")

	// ErrEmailTaken is returned by the identity index when another identity
	// already owns the normalized email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrStorageUnavailable marks an operational fault. Authorization
	// callers must resolve it to a denial, never to a grant.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
