package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

// relationshipCollections maps each record kind to the collection owned by
// the matching system. All reads here are against collections this core
// never writes.
var relationshipCollections = map[domain.RelationshipKind]string{
	domain.KindMatchingHistory:  "matching_histories",
	domain.KindInquiry:          "inquiries",
	domain.KindConfirmedBooking: "confirmed_bookings",
}

// RelationshipRepository implements ports.RelationshipRepository.
type RelationshipRepository struct {
	db *mongo.Database
}

func NewRelationshipRepository(db *mongo.Database) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

// Find returns the live record for the (customer, artist) pair. At most one
// live record exists per kind per pair.
func (r *RelationshipRepository) Find(ctx context.Context, kind domain.RelationshipKind, customerID, artistID string) (*domain.Relationship, error) {
	collection, ok := relationshipCollections[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relationship kind %q", kind)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"customer_id": customerID, "artist_id": artistID}

	var doc struct {
		CustomerID string `bson:"customer_id"`
		ArtistID   string `bson:"artist_id"`
		Status     string `bson:"status,omitempty"`
	}
	if err := r.db.Collection(collection).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRelationshipNotFound
		}
		return nil, err
	}

	return &domain.Relationship{
		Kind:       kind,
		CustomerID: doc.CustomerID,
		ArtistID:   doc.ArtistID,
		Status:     doc.Status,
	}, nil
}
