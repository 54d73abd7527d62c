package appointmentRepo

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicbook/models"
)

// GetByID retrieves an appointment by its unique ID.
func (r *MongoAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

// listSort orders results newest date first, earliest time first within a
// date, matching how schedules are reviewed.
var listSort = bson.D{{Key: "date", Value: -1}, {Key: "time_minute", Value: 1}}

func (r *MongoAppointmentRepo) findMany(filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(listSort))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

// ListByPatient retrieves a patient's appointments, newest date first.
func (r *MongoAppointmentRepo) ListByPatient(patientID string) ([]models.Appointment, error) {
	return r.findMany(bson.M{"patient_id": patientID})
}

// ListByDoctor retrieves a doctor's appointments, newest date first.
func (r *MongoAppointmentRepo) ListByDoctor(doctorID string) ([]models.Appointment, error) {
	return r.findMany(bson.M{"doctor_id": doctorID})
}

// ListAll retrieves every appointment, newest date first.
func (r *MongoAppointmentRepo) ListAll() ([]models.Appointment, error) {
	return r.findMany(bson.M{})
}

// CountActiveForWindow counts non-terminal appointments booked against a
// window on a date.
func (r *MongoAppointmentRepo) CountActiveForWindow(windowID, date string) (int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"window_id": windowID,
		"date":      date,
		"status":    bson.M{"$in": models.NonTerminalStatuses},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count active appointments for window %s: %w", windowID, err)
	}
	return int(count), nil
}

// HasCompleted reports whether the patient has at least one completed
// appointment with the doctor.
func (r *MongoAppointmentRepo) HasCompleted(patientID, doctorID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"status":     models.StatusCompleted,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check completed appointments: %w", err)
	}
	return count > 0, nil
}
