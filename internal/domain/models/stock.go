package models

import "time"

// Sentinel values written into normalized stock fields.
const (
	DateIndeterminate = "INDETERMINADO"
	CategoryNone      = "SEM CATEGORIA"
	IDNone            = "SEM ID"
)

// Raw record keys as they appear in the source documents.
const (
	FieldID             = "id"
	FieldName           = "name"
	FieldQuantity       = "quantity"
	FieldExpirationDate = "expirationDate"
	FieldCategory       = "category"
	FieldObservation    = "observation"
	// FieldObservationLegacy is the key used by the spreadsheets the inventory was first typed into.
	FieldObservationLegacy = "observacao"
)

// RawRecord is a loosely typed inventory document as read from a source.
type RawRecord map[string]any

// Status is the derived condition of a stock item.
type Status string

const (
	StatusInStock        Status = "IN_STOCK"
	StatusOutOfStock     Status = "OUT_OF_STOCK"
	StatusExpired        Status = "EXPIRED"
	StatusNearExpiration Status = "NEAR_EXPIRATION"
)

// StockItem is a normalized inventory record. Values are only produced by
// stock.Transformer; Status always reflects Quantity and ExpirationDate at the
// moment the item was built.
type StockItem struct {
	ID             string `bson:"_id" json:"id"`
	Name           string `bson:"name" json:"name"`
	Quantity       string `bson:"quantity" json:"quantity"`
	ExpirationDate string `bson:"expirationDate" json:"expirationDate"`
	Category       string `bson:"category" json:"category"`
	Observation    string `bson:"observation" json:"observation"`
	Status         Status `bson:"-" json:"status"`
}

// Raw converts the item back into the document shape accepted by sources and sinks.
func (i StockItem) Raw() RawRecord {
	return RawRecord{
		FieldID:             i.ID,
		FieldName:           i.Name,
		FieldQuantity:       i.Quantity,
		FieldExpirationDate: i.ExpirationDate,
		FieldCategory:       i.Category,
		FieldObservation:    i.Observation,
	}
}

// SortKey selects the ordering applied to a derived view.
type SortKey string

const (
	SortByName           SortKey = "name"
	SortByQuantity       SortKey = "quantity"
	SortByExpirationDate SortKey = "expirationDate"
)

// Meta filters select items by derived condition instead of category label.
const (
	FilterAll        = "Todos"
	FilterInStock    = "Em Estoque"
	FilterOutOfStock = "Sem Estoque"
	FilterExpired    = "Expirados"
)

// QueryConfig is the filter/sort/search state a view is derived from.
type QueryConfig struct {
	CategoryFilter string  `form:"filter" json:"filter"`
	SortKey        SortKey `form:"sort" json:"sort"`
	SearchTerm     string  `form:"search" json:"search"`
}

// DefaultQueryConfig mirrors the list screen's initial state.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{CategoryFilter: FilterAll, SortKey: SortByName}
}

// MovementType tells whether stock entered or left.
type MovementType string

const (
	MovementIn  MovementType = "entrada"
	MovementOut MovementType = "saida"
)

// Movement records a quantity change applied to a stock item.
type Movement struct {
	ID        string       `bson:"_id" json:"id"`
	ItemID    string       `bson:"itemId" json:"item_id"`
	Quantity  int          `bson:"quantity" json:"quantity"`
	Type      MovementType `bson:"type" json:"type"`
	UserID    string       `bson:"userId" json:"user_id"`
	Timestamp time.Time    `bson:"timestamp" json:"timestamp"`
}
