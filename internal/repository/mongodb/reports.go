package mongodb

import (
	"context"
	"fmt"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// SaveStockReport saves a stock report to the database.
func (r *MongoDBRepository) SaveStockReport(ctx context.Context, report models.StockReport) error {
	collection := r.db.Collection(reportsCollection)
	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert stock report: %w", err)
	}
	return nil
}
