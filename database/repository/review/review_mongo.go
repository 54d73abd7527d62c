package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicbook/database"
)

// MongoReviewRepo implements ReviewRepository using MongoDB. It holds the
// appointments collection as well so the completed-appointment gate can run
// in the same session as the insert.
type MongoReviewRepo struct {
	coll     *mongo.Collection
	apptColl *mongo.Collection
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	repo := &MongoReviewRepo{
		coll:     database.Collection("reviews"),
		apptColl: database.Collection("appointments"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates the review indexes. The compound unique index
// enforces one review per (patient, doctor, appointment) context at the
// storage level.
func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{
				{Key: "patient_id", Value: 1},
				{Key: "doctor_id", Value: 1},
				{Key: "appointment_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_patient_doctor_appointment"),
		},
		{
			Keys:    bson.D{{Key: "doctor_id", Value: 1}, {Key: "approved", Value: 1}},
			Options: options.Index().SetName("doctor_approved_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}
