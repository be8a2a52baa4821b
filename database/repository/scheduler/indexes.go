package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names are matched against duplicate-key errors to tell the two conflicts apart.
const (
	serviceSlotIndex = "service_date_slot_unique"
	userSlotIndex    = "user_date_slot_unique"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoSchedulerRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One booking per service per slot.
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}, {Key: "service", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(serviceSlotIndex),
		},
		// One booking per user per slot.
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(userSlotIndex),
		},
		{
			Keys:    bson.D{{Key: "service", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("service_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("user_date_idx"),
		},
	}

	_, err := repo.bookingColl.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
