package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

func TestRawFromDocumentUsesDocumentKey(t *testing.T) {
	doc := bson.M{
		"_id":            "A1",
		"name":           "Widget",
		"quantity":       int32(4),
		"expirationDate": primitive.NewDateTimeFromTime(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		"category":       "a",
	}

	record := rawFromDocument(doc)

	assert.Equal(t, "A1", record[models.FieldID])
	assert.Equal(t, "Widget", record[models.FieldName])
	assert.Equal(t, int32(4), record[models.FieldQuantity])
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), record[models.FieldExpirationDate])
	assert.NotContains(t, record, "_id")
}

func TestRawFromDocumentPrefersExplicitID(t *testing.T) {
	oid := primitive.NewObjectID()

	record := rawFromDocument(bson.M{"_id": oid, "id": " B 2 ", "name": "Gadget"})
	assert.Equal(t, " B 2 ", record[models.FieldID])

	record = rawFromDocument(bson.M{"_id": oid, "name": "Gadget"})
	assert.Equal(t, oid.Hex(), record[models.FieldID])
}

func TestPlainValue(t *testing.T) {
	dec, err := primitive.ParseDecimal128("12")
	assert.NoError(t, err)

	assert.Equal(t, "12", plainValue(dec))
	assert.Equal(t, "texto", plainValue("texto"))
	assert.Nil(t, plainValue(nil))
}
