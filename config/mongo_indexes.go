package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongorepo "github.com/tripwise/prompt-svc/internal/repositories/mongo"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return errors.New("mongo database is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	completions := db.Collection(mongorepo.CompletionCollection)
	_, err := completions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// TTL index: expire at ExpiresAt (must be Date)
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "trip_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_trip_ts"),
		},
		{
			Keys:    bson.D{{Key: "call_id", Value: 1}},
			Options: options.Index().SetName("uniq_call_id").SetUnique(true),
		},
	})
	return err
}
