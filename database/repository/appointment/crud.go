package appointmentRepo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"clinicbook/models"
)

// UpdateStatus persists a status transition as a compare-and-swap: the
// filter matches the status the transition started from, so a concurrent
// writer that moved the appointment first makes this write match nothing
// instead of resurrecting an overtaken state.
func (r *MongoAppointmentRepo) UpdateStatus(appt *models.Appointment, fromStatus string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	appt.UpdatedAt = time.Now()
	filter := bson.M{"id": appt.ID, "status": fromStatus}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": appt})
	if err != nil {
		return fmt.Errorf("failed to update appointment with id %s: %w", appt.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleTransition
	}
	return nil
}

// Delete removes an appointment by its ID.
func (r *MongoAppointmentRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("appointment with id %s not found", id)
	}
	return nil
}
