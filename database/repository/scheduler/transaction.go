package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ReserveTransactionally runs both conflict checks and the insert inside one
// snapshot-isolated transaction. Concurrent writers on the same slot collide on the
// unique indexes; the driver retries transient write conflicts, and the retry then
// sees the winner's booking and reports a ConflictError.
func (repo *MongoSchedulerRepo) ReserveTransactionally(ctx context.Context, booking *models.Booking) error {
	sess, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		serviceFilter := bson.M{"date": booking.Date, "slot": booking.Slot, "service": booking.Service}
		n, err := repo.bookingColl.CountDocuments(sc, serviceFilter, options.Count().SetLimit(1))
		if err != nil {
			return nil, fmt.Errorf("service conflict check failed: %w", err)
		}
		if n > 0 {
			return nil, conflict(models.ConflictServiceTaken, booking)
		}

		userFilter := bson.M{"date": booking.Date, "slot": booking.Slot, "user_id": booking.UserID}
		n, err = repo.bookingColl.CountDocuments(sc, userFilter, options.Count().SetLimit(1))
		if err != nil {
			return nil, fmt.Errorf("user conflict check failed: %w", err)
		}
		if n > 0 {
			return nil, conflict(models.ConflictUserDoubleBooked, booking)
		}

		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, duplicateKeyConflict(err, booking)
			}
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn, txnOpts); err != nil {
		var ce *models.ConflictError
		if errors.As(err, &ce) {
			return ce
		}
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyConflict(err, booking)
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

func conflict(kind models.ConflictKind, booking *models.Booking) *models.ConflictError {
	return &models.ConflictError{Kind: kind, Date: booking.Date, Slot: booking.Slot}
}

// duplicateKeyConflict maps a unique-index violation back to the invariant it protects.
func duplicateKeyConflict(err error, booking *models.Booking) *models.ConflictError {
	if strings.Contains(err.Error(), userSlotIndex) {
		return conflict(models.ConflictUserDoubleBooked, booking)
	}
	return conflict(models.ConflictServiceTaken, booking)
}
