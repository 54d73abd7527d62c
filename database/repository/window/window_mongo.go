package windowRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicbook/database"
)

// MongoWindowRepo implements WindowRepository using MongoDB.
type MongoWindowRepo struct {
	coll *mongo.Collection
}

// NewMongoWindowRepo creates a new instance of WindowRepository using MongoDB.
func NewMongoWindowRepo() WindowRepository {
	coll := database.Collection("availability_windows")
	repo := &MongoWindowRepo{coll: coll}

	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// EnsureIndexes creates the necessary indexes on the windows collection.
// The compound unique index on (doctor_id, day_of_week, start_minute) keeps
// two windows of one doctor from sharing a start even under concurrent
// edits.
func (r *MongoWindowRepo) EnsureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "day_of_week", Value: 1},
				{Key: "start_minute", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_doctor_day_start"),
		},
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "day_of_week", Value: 1},
				{Key: "available", Value: 1},
			},
			Options: options.Index().SetName("doctor_day_available_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create window indexes: %w", err)
	}
	return nil
}
