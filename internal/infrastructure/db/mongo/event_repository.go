package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

const collectionSecurityEvents = "security_events"

// SecurityEventRepository implements the append-only event log on MongoDB.
// Documents are inserted and queried, never updated or deleted.
type SecurityEventRepository struct {
	col *mongo.Collection
}

func NewSecurityEventRepository(db *mongo.Database) *SecurityEventRepository {
	return &SecurityEventRepository{col: db.Collection(collectionSecurityEvents)}
}

func (r *SecurityEventRepository) Append(ctx context.Context, event *domain.SecurityEvent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"event_type": event.EventType,
		"severity":   string(event.Severity),
		"timestamp":  event.Timestamp.UTC(),
	}
	if event.SubjectID != "" {
		doc["subject_id"] = event.SubjectID
	}
	if event.TargetID != "" {
		doc["target_id"] = event.TargetID
	}
	if event.ResourceRef != "" {
		doc["resource_ref"] = event.ResourceRef
	}
	if len(event.Metadata) > 0 {
		doc["metadata"] = event.Metadata
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

// FetchSince returns events in the window, newest first, bounded by limit.
func (r *SecurityEventRepository) FetchSince(ctx context.Context, since time.Time, limit int64) ([]*domain.SecurityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"timestamp": bson.M{"$gte": since.UTC()}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []*domain.SecurityEvent
	for cur.Next(ctx) {
		var doc struct {
			ID          primitive.ObjectID `bson:"_id"`
			EventType   string             `bson:"event_type"`
			SubjectID   string             `bson:"subject_id,omitempty"`
			TargetID    string             `bson:"target_id,omitempty"`
			ResourceRef string             `bson:"resource_ref,omitempty"`
			Severity    string             `bson:"severity"`
			Timestamp   time.Time          `bson:"timestamp"`
			Metadata    map[string]string  `bson:"metadata,omitempty"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		events = append(events, &domain.SecurityEvent{
			ID:          doc.ID.Hex(),
			EventType:   doc.EventType,
			SubjectID:   doc.SubjectID,
			TargetID:    doc.TargetID,
			ResourceRef: doc.ResourceRef,
			Severity:    domain.Severity(doc.Severity),
			Timestamp:   doc.Timestamp,
			Metadata:    doc.Metadata,
		})
	}
	return events, cur.Err()
}

func (r *SecurityEventRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"timestamp": bson.M{"$gte": since.UTC()}})
}

// EnsureIndexes creates the timestamp index backing windowed scans.
func (r *SecurityEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
