package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoSchedulerRepo implements BookingRepository using MongoDB.
type MongoSchedulerRepo struct {
	client      *mongo.Client
	bookingColl *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo(client *mongo.Client, dbName string) *MongoSchedulerRepo {
	db := client.Database(dbName)
	return &MongoSchedulerRepo{
		client:      client,
		bookingColl: db.Collection("bookings"),
	}
}

// FindByServiceDate fetches the bookings already holding slots for a service on a date.
func (repo *MongoSchedulerRepo) FindByServiceDate(ctx context.Context, service, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"service": service, "date": date}
	return repo.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "slot", Value: 1}}))
}

// FindByUserSlot returns the booking a user holds at (date, slot), if any.
func (repo *MongoSchedulerRepo) FindByUserSlot(ctx context.Context, userID, date string, slot models.Slot) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var booking models.Booking
	filter := bson.M{"user_id": userID, "date": date, "slot": slot}
	err := repo.bookingColl.FindOne(ctx, filter).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking for user %s at %s %s: %w", userID, date, slot, err)
	}
	return &booking, nil
}

func (repo *MongoSchedulerRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Booking, error) {
	cursor, err := repo.bookingColl.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
