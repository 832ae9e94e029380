package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// InsertMovement appends a movement to the history.
func (r *MongoDBRepository) InsertMovement(ctx context.Context, movement models.Movement) error {
	if _, err := r.db.Collection(movementsCollection).InsertOne(ctx, movement); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// ListMovements returns the newest movements first. An empty itemID lists
// movements of every item.
func (r *MongoDBRepository) ListMovements(ctx context.Context, itemID string, limit int64) ([]models.Movement, error) {
	filter := bson.M{}
	if itemID != "" {
		filter["itemId"] = itemID
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.db.Collection(movementsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}

	movements := []models.Movement{}
	if err := cursor.All(ctx, &movements); err != nil {
		return nil, fmt.Errorf("failed to decode movements: %w", err)
	}
	return movements, nil
}
