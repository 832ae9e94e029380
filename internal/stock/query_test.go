package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

var queryNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func queryFixture() []models.StockItem {
	return Transform([]models.RawRecord{
		{"id": "C-10", "name": "banana", "quantity": "10", "expirationDate": "20/03/2025", "category": "frios"},
		{"id": "C-02", "name": "Apple", "quantity": "0", "expirationDate": "x", "category": "a"},
		{"id": "C-07", "name": "cherry", "quantity": "9 cx", "expirationDate": "01/25", "category": "A"},
		{"id": "C-01", "name": "Álcool 70", "quantity": "abc", "expirationDate": "12/2026", "category": "armário"},
		{"id": "C-05", "name": "Detergente", "quantity": "3 pares", "expirationDate": "", "category": ""},
	}, queryNow)
}

func ids(items []models.StockItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestDeriveViewDefaultSortsByName(t *testing.T) {
	got := DeriveView(queryFixture(), models.DefaultQueryConfig(), queryNow)
	assert.Equal(t, []string{"C-01", "C-02", "C-10", "C-07", "C-05"}, ids(got))
}

func TestDeriveViewMetaFilters(t *testing.T) {
	items := queryFixture()

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: models.FilterAll, want: []string{"C-10", "C-02", "C-07", "C-01", "C-05"}},
		{filter: "", want: []string{"C-10", "C-02", "C-07", "C-01", "C-05"}},
		{filter: models.FilterInStock, want: []string{"C-10", "C-07", "C-05"}},
		{filter: models.FilterOutOfStock, want: []string{"C-02", "C-01"}},
		{filter: models.FilterExpired, want: []string{"C-07"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got := DeriveView(items, models.QueryConfig{CategoryFilter: tt.filter}, queryNow)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestDeriveViewOutOfStockIgnoresSortAndSearch(t *testing.T) {
	items := queryFixture()
	for _, key := range []models.SortKey{models.SortByName, models.SortByQuantity, models.SortByExpirationDate, "bogus"} {
		got := DeriveView(items, models.QueryConfig{CategoryFilter: models.FilterOutOfStock, SortKey: key}, queryNow)
		assert.ElementsMatch(t, []string{"C-02", "C-01"}, ids(got), "sort %q", key)
		for _, item := range got {
			assert.Equal(t, "0", item.Quantity)
		}
	}
}

func TestDeriveViewLiteralCategory(t *testing.T) {
	items := queryFixture()

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: "A", want: []string{"C-02", "C-07"}},
		{filter: "a", want: []string{"C-02", "C-07"}},
		{filter: "FRIOS", want: []string{"C-10"}},
		{filter: "Frios", want: []string{"C-10"}},
		{filter: "Armario", want: []string{"C-01"}},
		{filter: models.CategoryNone, want: []string{"C-05"}},
		{filter: "Bebidas", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got := DeriveView(items, models.QueryConfig{CategoryFilter: tt.filter}, queryNow)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestDeriveViewSearch(t *testing.T) {
	items := Transform(exampleRecords(), transformNow)

	got := DeriveView(items, models.QueryConfig{CategoryFilter: models.FilterAll, SearchTerm: "wid"}, transformNow)
	require.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].ID)

	got = DeriveView(items, models.QueryConfig{SearchTerm: "  WID "}, transformNow)
	assert.Equal(t, []string{"A1"}, ids(got))

	got = DeriveView(items, models.QueryConfig{SearchTerm: "b2"}, transformNow)
	assert.Equal(t, []string{"B2"}, ids(got))

	got = DeriveView(items, models.QueryConfig{CategoryFilter: models.FilterInStock, SearchTerm: "gadget"}, transformNow)
	assert.Empty(t, got)
}

func TestDeriveViewSortByQuantity(t *testing.T) {
	got := DeriveView(queryFixture(), models.QueryConfig{SortKey: models.SortByQuantity}, queryNow)
	assert.Equal(t, []string{"C-02", "C-01", "C-05", "C-07", "C-10"}, ids(got))
}

func TestDeriveViewSortByExpirationPutsIndeterminateLast(t *testing.T) {
	items := queryFixture()
	got := DeriveView(items, models.QueryConfig{SortKey: models.SortByExpirationDate}, queryNow)

	assert.Equal(t, []string{"C-07", "C-10", "C-01", "C-02", "C-05"}, ids(got))

	seenSentinel := false
	for _, item := range got {
		if item.ExpirationDate == models.DateIndeterminate {
			seenSentinel = true
			continue
		}
		assert.False(t, seenSentinel, "resolvable date %s after sentinel", item.ExpirationDate)
	}
}

func TestDeriveViewUnknownSortKeepsInputOrder(t *testing.T) {
	items := queryFixture()
	got := DeriveView(items, models.QueryConfig{SortKey: "preço"}, queryNow)
	assert.Equal(t, ids(items), ids(got))
}

func TestDeriveViewDoesNotMutateInput(t *testing.T) {
	items := queryFixture()
	before := append([]models.StockItem(nil), items...)

	got := DeriveView(items, models.DefaultQueryConfig(), queryNow)
	require.NotEmpty(t, got)
	got[0].Name = "changed"

	assert.Equal(t, before, items)
}

func TestIsMetaFilter(t *testing.T) {
	assert.True(t, IsMetaFilter(models.FilterExpired))
	assert.False(t, IsMetaFilter("A"))
}
