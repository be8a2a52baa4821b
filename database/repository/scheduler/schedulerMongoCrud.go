package schedulerRepo

import (
	"context"
	"fmt"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetBookingByID retrieves a booking by its ID.
func (repo *MongoSchedulerRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, &models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking with id %s: %w", bookingID, err)
	}
	return &booking, nil
}

// ListByUser returns a user's bookings, soonest first.
func (repo *MongoSchedulerRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sort := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}})
	return repo.find(ctx, bson.M{"user_id": userID}, sort)
}

// ListAll returns every booking, or only those on date when it is set.
func (repo *MongoSchedulerRepo) ListAll(ctx context.Context, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if date != "" {
		filter["date"] = date
	}
	sort := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}, {Key: "service", Value: 1}})
	return repo.find(ctx, filter, sort)
}

// DeleteBooking removes a booking record from the database.
func (repo *MongoSchedulerRepo) DeleteBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := repo.bookingColl.DeleteOne(ctx, bson.M{"id": bookingID})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", bookingID, err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	return nil
}
