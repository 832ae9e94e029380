package stock

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// DeriveView filters, searches and sorts items according to cfg. The input is
// never modified and the result is always a new slice. It holds no state and
// may be called concurrently.
func DeriveView(items []models.StockItem, cfg models.QueryConfig, now time.Time) []models.StockItem {
	keep := categoryPredicate(cfg.CategoryFilter, now)
	term := strings.ToLower(strings.TrimSpace(cfg.SearchTerm))

	view := make([]models.StockItem, 0, len(items))
	for _, item := range items {
		if !keep(item) || !matchesSearch(item, term) {
			continue
		}
		view = append(view, item)
	}

	if compare := comparator(cfg.SortKey); compare != nil {
		slices.SortStableFunc(view, compare)
	}
	return view
}

// IsMetaFilter reports whether the filter selects by stock condition.
func IsMetaFilter(filter string) bool {
	return slices.Contains(MetaFilters, filter)
}

func categoryPredicate(filter string, now time.Time) func(models.StockItem) bool {
	switch filter {
	case "", models.FilterAll:
		return func(models.StockItem) bool { return true }
	case models.FilterInStock:
		return func(item models.StockItem) bool { return ParseQuantity(item.Quantity) > 0 }
	case models.FilterOutOfStock:
		return func(item models.StockItem) bool { return ParseQuantity(item.Quantity) == 0 }
	case models.FilterExpired:
		return func(item models.StockItem) bool { return IsExpired(item.ExpirationDate, now) }
	}

	normalized := NormalizeCategory(filter)
	return func(item models.StockItem) bool {
		return item.Category == filter ||
			item.Category == normalized ||
			DisplayCategory(item.Category) == filter
	}
}

func matchesSearch(item models.StockItem, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), term) ||
		strings.Contains(strings.ToLower(item.ID), term)
}

func comparator(key models.SortKey) func(a, b models.StockItem) int {
	switch key {
	case models.SortByName:
		col := newCollator()
		return func(a, b models.StockItem) int {
			return col.CompareString(a.Name, b.Name)
		}
	case models.SortByQuantity:
		return func(a, b models.StockItem) int {
			return cmp.Compare(ParseQuantity(a.Quantity), ParseQuantity(b.Quantity))
		}
	case models.SortByExpirationDate:
		return compareExpiration
	}
	return nil
}

// compareExpiration sorts ascending by date with unresolvable dates last.
func compareExpiration(a, b models.StockItem) int {
	dateA, okA := ParseExpiration(a.ExpirationDate)
	dateB, okB := ParseExpiration(b.ExpirationDate)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return dateA.Compare(dateB)
}
