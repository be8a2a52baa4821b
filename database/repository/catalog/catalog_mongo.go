package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"slotbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	coll *mongo.Collection
}

func NewMongoCatalogRepo(client *mongo.Client, dbName string) *MongoCatalogRepo {
	return &MongoCatalogRepo{coll: client.Database(dbName).Collection("services")}
}

// ListActive returns active services ordered by their seed position.
func (r *MongoCatalogRepo) ListActive(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}

// EnsureSeed creates the id index and inserts the default menu into an empty collection.
func (r *MongoCatalogRepo) EnsureSeed(ctx context.Context, services []models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create service index: %w", err)
	}

	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("error counting services: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(services))
	for i, s := range services {
		docs = append(docs, bson.M{
			"id":       s.ID,
			"name":     s.Name,
			"duration": s.Duration,
			"active":   s.Active,
			"position": i,
		})
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("error seeding services: %w", err)
	}
	return nil
}
