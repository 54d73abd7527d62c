package doctorRepo

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"clinicbook/models"
)

func (r *MongoDoctorRepo) findOne(filter bson.M) (*models.Doctor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var doctor models.Doctor
	if err := r.coll.FindOne(ctx, filter).Decode(&doctor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	return &doctor, nil
}

// GetByID retrieves a doctor profile by its unique ID.
func (r *MongoDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	return r.findOne(bson.M{"id": id})
}

// GetByUserID retrieves the doctor profile owned by the given user.
func (r *MongoDoctorRepo) GetByUserID(userID string) (*models.Doctor, error) {
	return r.findOne(bson.M{"user_id": userID})
}

func (r *MongoDoctorRepo) findMany(filter bson.M) ([]models.Doctor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

// GetAll retrieves all doctor profiles.
func (r *MongoDoctorRepo) GetAll() ([]models.Doctor, error) {
	return r.findMany(bson.M{})
}

// GetBySpecialization retrieves doctors with the given specialization.
func (r *MongoDoctorRepo) GetBySpecialization(spec string) ([]models.Doctor, error) {
	return r.findMany(bson.M{"specialization": spec})
}
