package stock

import (
	"time"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// Transformer turns raw documents into StockItems. It is the only place a
// StockItem is constructed.
type Transformer struct {
	now    func() time.Time
	window int
}

// Option customises a Transformer.
type Option func(*Transformer)

// WithClock overrides the clock used to classify items.
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithNearExpirationDays sets the near-expiration window in days.
func WithNearExpirationDays(days int) Option {
	return func(t *Transformer) {
		if days > 0 {
			t.window = days
		}
	}
}

// NewTransformer builds a Transformer with the default 30 day window.
func NewTransformer(opts ...Option) *Transformer {
	t := &Transformer{now: time.Now, window: DefaultNearExpirationDays}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Window returns the near-expiration window in days.
func (t *Transformer) Window() int {
	return t.window
}

// Now returns the transformer's current time.
func (t *Transformer) Now() time.Time {
	return t.now()
}

// Transform normalizes every record and drops those without id or name. The
// output keeps the input order.
func (t *Transformer) Transform(records []models.RawRecord) []models.StockItem {
	now := t.now()
	items := make([]models.StockItem, 0, len(records))
	for _, record := range records {
		item, ok := t.build(record, now)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Item normalizes a single record. ok is false when the record would be dropped.
func (t *Transformer) Item(record models.RawRecord) (models.StockItem, bool) {
	return t.build(record, t.now())
}

// Reclassify recomputes the status of already normalized items against now.
func (t *Transformer) Reclassify(items []models.StockItem, now time.Time) []models.StockItem {
	out := make([]models.StockItem, len(items))
	for i, item := range items {
		item.Status = Classify(item.Quantity, item.ExpirationDate, now, t.window)
		out[i] = item
	}
	return out
}

// Transform normalizes records against a fixed instant with the default window.
func Transform(records []models.RawRecord, now time.Time) []models.StockItem {
	return NewTransformer(WithClock(func() time.Time { return now })).Transform(records)
}

func (t *Transformer) build(record models.RawRecord, now time.Time) (models.StockItem, bool) {
	item := models.StockItem{
		ID:             NormalizeID(record[models.FieldID]),
		Name:           NormalizeName(record[models.FieldName]),
		Quantity:       NormalizeQuantity(record[models.FieldQuantity]),
		ExpirationDate: NormalizeDate(record[models.FieldExpirationDate]),
		Category:       NormalizeCategory(record[models.FieldCategory]),
		Observation:    NormalizeObservation(observation(record)),
	}
	if item.ID == "" || item.Name == "" {
		return models.StockItem{}, false
	}
	item.Status = Classify(item.Quantity, item.ExpirationDate, now, t.window)
	return item, true
}

func observation(record models.RawRecord) any {
	if v, ok := record[models.FieldObservation]; ok && v != nil {
		return v
	}
	return record[models.FieldObservationLegacy]
}
