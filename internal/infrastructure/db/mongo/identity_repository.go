package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

const (
	collectionIdentities    = "identities"
	collectionIdentityIndex = "identity_index"
)

// IdentityRepository implements ports.IdentityRepository against the
// identities collection owned by the application layer.
type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionIdentities)}
}

func (r *IdentityRepository) FindByID(ctx context.Context, identityID string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var identity domain.Identity
	if err := r.col.FindOne(ctx, bson.M{"_id": identityID}).Decode(&identity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (r *IdentityRepository) UpdateEmail(ctx context.Context, identityID, email, emailNormalized string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": identityID},
		bson.M{"$set": bson.M{"email": email, "email_normalized": emailNormalized}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// Delete removes the identity document. Used as the compensating action of
// the create-then-validate flow; deleting an already absent document is fine.
func (r *IdentityRepository) Delete(ctx context.Context, identityID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"_id": identityID})
	return err
}

// IdentityIndexRepository implements ports.IdentityIndexRepository on the
// identity_index collection. Uniqueness is enforced by a unique index on
// email_normalized, so Claim loses races at the database, not in memory.
type IdentityIndexRepository struct {
	col *mongo.Collection
}

func NewIdentityIndexRepository(db *mongo.Database) *IdentityIndexRepository {
	return &IdentityIndexRepository{col: db.Collection(collectionIdentityIndex)}
}

func (r *IdentityIndexRepository) FindByNormalized(ctx context.Context, emailNormalized string) (*domain.IdentityIndexEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var entry domain.IdentityIndexEntry
	if err := r.col.FindOne(ctx, bson.M{"email_normalized": emailNormalized}).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *IdentityIndexRepository) Claim(ctx context.Context, entry *domain.IdentityIndexEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"email_normalized": entry.EmailNormalized,
		"identity_id":      entry.IdentityID,
		"created_at":       entry.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *IdentityIndexRepository) Remove(ctx context.Context, emailNormalized string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"email_normalized": emailNormalized})
	return err
}

// EnsureIndexes creates the unique index backing the duplicate check.
func (r *IdentityIndexRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_normalized", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
