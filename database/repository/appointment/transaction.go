package appointmentRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"clinicbook/models"
)

// BookAtomically inserts a pending appointment inside a mongo transaction.
// The slot-uniqueness and capacity checks run in the same session as the
// insert, so two concurrent bookers cannot both pass validation; the
// partial unique index remains the last line of defense if they somehow do.
func (r *MongoAppointmentRepo) BookAtomically(
	ctx context.Context,
	appt *models.Appointment,
	capacity int,
) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		taken, err := r.coll.CountDocuments(sc, bson.M{
			"doctor_id":   appt.DoctorID,
			"date":        appt.Date,
			"time_minute": appt.TimeMinute,
			"status":      bson.M{"$in": models.NonTerminalStatuses},
		})
		if err != nil {
			return fmt.Errorf("slot conflict check failed: %w", err)
		}
		if taken > 0 {
			return ErrSlotTaken
		}

		booked, err := r.coll.CountDocuments(sc, bson.M{
			"window_id": appt.WindowID,
			"date":      appt.Date,
			"status":    bson.M{"$in": models.NonTerminalStatuses},
		})
		if err != nil {
			return fmt.Errorf("capacity check failed: %w", err)
		}
		if int(booked) >= capacity {
			return ErrCapacityExceeded
		}

		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
