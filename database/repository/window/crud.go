package windowRepo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"clinicbook/models"
)

// Create inserts a new window.
func (r *MongoWindowRepo) Create(window *models.AvailabilityWindow) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, window)
	if err != nil {
		return fmt.Errorf("failed to create availability window: %w", err)
	}
	return nil
}

// Update modifies an existing window.
func (r *MongoWindowRepo) Update(window *models.AvailabilityWindow) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": window.ID}, bson.M{"$set": window})
	if err != nil {
		return fmt.Errorf("failed to update window with id %s: %w", window.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("window with id %s not found", window.ID)
	}
	return nil
}

// Delete removes a window by its ID.
func (r *MongoWindowRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete window with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("window with id %s not found", id)
	}
	return nil
}

// DeleteByDoctor removes every window owned by a doctor.
func (r *MongoWindowRepo) DeleteByDoctor(doctorID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"doctor_id": doctorID}); err != nil {
		return fmt.Errorf("failed to delete windows for doctor %s: %w", doctorID, err)
	}
	return nil
}
