package mongo

import (
	"context"
	"time"

	"github.com/tripwise/prompt-svc/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CompletionCollection = "completion_log"

type CompletionRepository interface {
	Insert(ctx context.Context, rec *models.CompletionRecord) error
	ListByTrip(ctx context.Context, tripID int64, limit int64) ([]models.CompletionRecord, error)
}

type completionRepo struct {
	col *mongo.Collection
}

func NewCompletionRepo(db *mongo.Database) CompletionRepository {
	return &completionRepo{col: db.Collection(CompletionCollection)}
}

func (r *completionRepo) Insert(ctx context.Context, rec *models.CompletionRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

// ListByTrip returns the newest records first.
func (r *completionRepo) ListByTrip(ctx context.Context, tripID int64, limit int64) ([]models.CompletionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"trip_id": tripID},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CompletionRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
