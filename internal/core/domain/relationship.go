package domain

import "errors"

// RelationshipKind discriminates the three relationship record variants.
type RelationshipKind string

const (
	KindMatchingHistory  RelationshipKind = "matching_history"
	KindInquiry          RelationshipKind = "inquiry"
	KindConfirmedBooking RelationshipKind = "confirmed_booking"
)

// Inquiry statuses.
const (
	InquiryPending   = "pending"
	InquiryResponded = "responded"
	InquiryClosed    = "closed"
)

// Booking statuses.
const (
	BookingScheduled = "scheduled"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

var ErrRelationshipNotFound = errors.New("relationship not found")

// Relationship is one durable customer-artist record. The store is owned by
// the matching system; this core only reads it. At most one live record
// exists per kind per (customer, artist) pair.
type Relationship struct {
	Kind       RelationshipKind `json:"kind" bson:"kind"`
	CustomerID string           `json:"customer_id" bson:"customer_id"`
	ArtistID   string           `json:"artist_id" bson:"artist_id"`
	Status     string           `json:"status,omitempty" bson:"status,omitempty"`
}

// GrantsAccess reports whether this record alone authorizes the customer to
// view the artist's portfolio.
func (r *Relationship) GrantsAccess() bool {
	if r == nil {
		return false
	}
	switch r.Kind {
	case KindMatchingHistory:
		return true
	case KindInquiry:
		return r.Status == InquiryPending || r.Status == InquiryResponded
	case KindConfirmedBooking:
		return r.Status == BookingCompleted
	}
	return false
}
