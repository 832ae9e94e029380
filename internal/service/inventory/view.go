package inventory

import (
	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/stock"
)

// ViewItem is a stock item as shown in the list, with its low stock hint.
type ViewItem struct {
	models.StockItem
	LowStock bool `json:"low_stock"`
}

// View is a derived item list together with the query it answers.
type View struct {
	Items      []ViewItem         `json:"items"`
	Count      int                `json:"count"`
	Generation uint64             `json:"generation"`
	Query      models.QueryConfig `json:"query"`
}

func newView(items []models.StockItem, query models.QueryConfig, generation uint64, lowStock int) View {
	viewItems := make([]ViewItem, len(items))
	for i, item := range items {
		viewItems[i] = ViewItem{StockItem: item, LowStock: stock.IsLowStock(item.Quantity, lowStock)}
	}
	return View{
		Items:      viewItems,
		Count:      len(viewItems),
		Generation: generation,
		Query:      query,
	}
}

// StockItems returns the plain items of the view.
func (v View) StockItems() []models.StockItem {
	items := make([]models.StockItem, len(v.Items))
	for i, item := range v.Items {
		items[i] = item.StockItem
	}
	return items
}
