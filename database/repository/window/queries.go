package windowRepo

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicbook/models"
)

// GetByID retrieves a window by its unique ID.
func (r *MongoWindowRepo) GetByID(id string) (*models.AvailabilityWindow, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var window models.AvailabilityWindow
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&window); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch window with id %s: %w", id, err)
	}
	return &window, nil
}

func (r *MongoWindowRepo) findMany(filter bson.M, sort bson.D) ([]models.AvailabilityWindow, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []models.AvailabilityWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode windows: %w", err)
	}
	return windows, nil
}

// ListByDoctor retrieves every window of a doctor, ordered by day and start
// time.
func (r *MongoWindowRepo) ListByDoctor(doctorID string) ([]models.AvailabilityWindow, error) {
	return r.findMany(
		bson.M{"doctor_id": doctorID},
		bson.D{{Key: "day_of_week", Value: 1}, {Key: "start_minute", Value: 1}},
	)
}

// ListAvailable retrieves a doctor's available windows for a day of week,
// ordered by start time.
func (r *MongoWindowRepo) ListAvailable(doctorID string, dayOfWeek int) ([]models.AvailabilityWindow, error) {
	return r.findMany(
		bson.M{"doctor_id": doctorID, "day_of_week": dayOfWeek, "available": true},
		bson.D{{Key: "start_minute", Value: 1}},
	)
}
