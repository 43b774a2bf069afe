package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

const collectionSecurityAlerts = "security_alerts"

// AlertRepository implements ports.AlertRepository on MongoDB.
type AlertRepository struct {
	col *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{col: db.Collection(collectionSecurityAlerts)}
}

type alertDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	AlertType       string             `bson:"alert_type"`
	Severity        string             `bson:"severity"`
	EvidenceSummary string             `bson:"evidence_summary"`
	Timestamp       time.Time          `bson:"timestamp"`
	Status          string             `bson:"status"`
}

func (d *alertDoc) toDomain() *domain.SecurityAlert {
	return &domain.SecurityAlert{
		ID:              d.ID.Hex(),
		AlertType:       d.AlertType,
		Severity:        domain.Severity(d.Severity),
		EvidenceSummary: d.EvidenceSummary,
		Timestamp:       d.Timestamp,
		Status:          domain.AlertStatus(d.Status),
	}
}

func (r *AlertRepository) Insert(ctx context.Context, alert *domain.SecurityAlert) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := alertDoc{
		AlertType:       alert.AlertType,
		Severity:        string(alert.Severity),
		EvidenceSummary: alert.EvidenceSummary,
		Timestamp:       alert.Timestamp.UTC(),
		Status:          string(alert.Status),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		alert.ID = oid.Hex()
	}
	return nil
}

func (r *AlertRepository) FindByID(ctx context.Context, alertID string) (*domain.SecurityAlert, error) {
	oid, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return nil, domain.ErrAlertNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc alertDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AlertRepository) List(ctx context.Context, status domain.AlertStatus, limit int64) ([]*domain.SecurityAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var alerts []*domain.SecurityAlert
	for cur.Next(ctx) {
		var doc alertDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		alerts = append(alerts, doc.toDomain())
	}
	return alerts, cur.Err()
}

func (r *AlertRepository) UpdateStatus(ctx context.Context, alertID string, status domain.AlertStatus) error {
	oid, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return domain.ErrAlertNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlertNotFound
	}
	return nil
}
