package reviewRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicbook/models"
)

// CreateGated inserts a review inside a mongo transaction. The
// completed-appointment check runs in the same session as the insert so a
// concurrent appointment deletion cannot slip a review past the gate, and
// the unique index turns duplicate submissions into ErrDuplicateReview.
func (r *MongoReviewRepo) CreateGated(ctx context.Context, review *models.Review) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		completed, err := r.apptColl.CountDocuments(sc, bson.M{
			"patient_id": review.PatientID,
			"doctor_id":  review.DoctorID,
			"status":     models.StatusCompleted,
		}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("eligibility check failed: %w", err)
		}
		if completed == 0 {
			return ErrNotEligible
		}

		if _, err := r.coll.InsertOne(sc, review); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateReview
			}
			return fmt.Errorf("insert review failed: %w", err)
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
