package models

import "time"

// StockReport represents the aggregated stock condition stored in MongoDB.
type StockReport struct {
	Date            time.Time    `bson:"date" json:"date"`
	TotalItems      int          `bson:"total_items" json:"total_items"`
	InStock         int          `bson:"in_stock" json:"in_stock"`
	OutOfStock      int          `bson:"out_of_stock" json:"out_of_stock"`
	Expired         int          `bson:"expired" json:"expired"`
	NearExpiration  int          `bson:"near_expiration" json:"near_expiration"`
	LowStock        int          `bson:"low_stock" json:"low_stock"`
	Alerts          []StockAlert `bson:"alerts" json:"alerts"`
	SnapshotVersion uint64       `bson:"snapshot_version" json:"snapshot_version"`
	CreatedAt       time.Time    `bson:"created_at" json:"created_at"`
}

// StockAlert is an item that needs attention at report time.
type StockAlert struct {
	ItemID         string `bson:"item_id" json:"item_id"`
	Name           string `bson:"name" json:"name"`
	Category       string `bson:"category" json:"category"`
	Quantity       string `bson:"quantity" json:"quantity"`
	ExpirationDate string `bson:"expiration_date" json:"expiration_date"`
	Status         Status `bson:"status" json:"status"`
}
