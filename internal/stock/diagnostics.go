package stock

import (
	"github.com/mamadbah2/estoque/internal/domain/models"
)

// Diagnostics summarises data quality problems in a normalized snapshot.
type Diagnostics struct {
	Total           int            `json:"total"`
	ByCategory      map[string]int `json:"by_category"`
	DuplicateIDs    []string       `json:"duplicate_ids"`
	InvalidDates    []InvalidDate  `json:"invalid_dates"`
	WithoutCategory []string       `json:"without_category"`
	ZeroQuantity    []string       `json:"zero_quantity"`
}

// InvalidDate points at an item whose expiration date cannot be resolved.
type InvalidDate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// Healthy reports whether no problem was found.
func (d Diagnostics) Healthy() bool {
	return len(d.DuplicateIDs) == 0 &&
		len(d.InvalidDates) == 0 &&
		len(d.WithoutCategory) == 0
}

// Validate inspects items and reports duplicates, unresolvable dates, items
// without a category and items with nothing in stock. Each duplicate id is
// listed once, in order of its second appearance.
func Validate(items []models.StockItem) Diagnostics {
	d := Diagnostics{
		Total:           len(items),
		ByCategory:      make(map[string]int),
		DuplicateIDs:    []string{},
		InvalidDates:    []InvalidDate{},
		WithoutCategory: []string{},
		ZeroQuantity:    []string{},
	}

	seen := make(map[string]int, len(items))
	for _, item := range items {
		d.ByCategory[item.Category]++

		seen[item.ID]++
		if seen[item.ID] == 2 {
			d.DuplicateIDs = append(d.DuplicateIDs, item.ID)
		}

		if item.ExpirationDate != models.DateIndeterminate {
			if _, ok := ParseExpiration(item.ExpirationDate); !ok {
				d.InvalidDates = append(d.InvalidDates, InvalidDate{
					ID:   item.ID,
					Name: item.Name,
					Date: item.ExpirationDate,
				})
			}
		}

		if item.Category == "" || item.Category == models.CategoryNone {
			d.WithoutCategory = append(d.WithoutCategory, item.ID)
		}
		if ParseQuantity(item.Quantity) == 0 {
			d.ZeroQuantity = append(d.ZeroQuantity, item.ID)
		}
	}
	return d
}
