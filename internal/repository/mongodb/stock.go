package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// FetchRaw reads every stock document as a loosely typed record, ordered by key.
func (r *MongoDBRepository) FetchRaw(ctx context.Context) ([]models.RawRecord, error) {
	collection := r.db.Collection(stockCollection)
	cursor, err := collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.RawRecord
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode stock document: %w", err)
		}
		records = append(records, rawFromDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock: %w", err)
	}

	return records, nil
}

// GetItem loads a single stock document by id.
func (r *MongoDBRepository) GetItem(ctx context.Context, id string) (models.RawRecord, error) {
	var doc bson.M
	err := r.db.Collection(stockCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock item %s: %w", id, notFound(err))
	}
	return rawFromDocument(doc), nil
}

// UpsertItem replaces the whole document keyed by the item id. created is true
// when no document existed before.
func (r *MongoDBRepository) UpsertItem(ctx context.Context, item models.StockItem) (bool, error) {
	res, err := r.db.Collection(stockCollection).ReplaceOne(ctx,
		bson.M{"_id": item.ID}, item, options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert stock item %s: %w", item.ID, err)
	}
	return res.UpsertedCount > 0, nil
}

// SetQuantity overwrites the quantity of an existing item.
func (r *MongoDBRepository) SetQuantity(ctx context.Context, id, quantity string) error {
	res, err := r.db.Collection(stockCollection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M{"quantity": quantity}})
	if err != nil {
		return fmt.Errorf("failed to update quantity of %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update quantity of %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteItem removes the document keyed by id.
func (r *MongoDBRepository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.db.Collection(stockCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete stock item %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete stock item %s: %w", id, ErrNotFound)
	}
	return nil
}

// rawFromDocument maps a stored document onto the record keys the pipeline
// understands. An explicit "id" field wins over the document key.
func rawFromDocument(doc bson.M) models.RawRecord {
	record := make(models.RawRecord, len(doc))
	for key, value := range doc {
		if key == "_id" {
			continue
		}
		record[key] = plainValue(value)
	}
	if _, ok := record[models.FieldID]; !ok {
		record[models.FieldID] = plainValue(doc["_id"])
	}
	return record
}

func plainValue(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC()
	case primitive.Decimal128:
		return v.String()
	default:
		return v
	}
}
