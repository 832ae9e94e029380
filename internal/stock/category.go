package stock

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// DisplayEmpty labels items whose category is blank.
const DisplayEmpty = "Vazio"

const displayCabinet = "Armario"

// categoryOrder lists labels that always come first, in this order.
var categoryOrder = []string{
	models.FilterAll,
	models.FilterInStock,
	models.FilterOutOfStock,
	models.FilterExpired,
	displayCabinet,
	"S/E",
	DisplayEmpty,
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "K", "X",
}

var categoryRank = func() map[string]int {
	rank := make(map[string]int, len(categoryOrder))
	for i, label := range categoryOrder {
		rank[label] = i
	}
	return rank
}()

// MetaFilters are the category filters that select by stock condition.
var MetaFilters = []string{
	models.FilterAll,
	models.FilterInStock,
	models.FilterOutOfStock,
	models.FilterExpired,
}

// DisplayCategory turns a category into the label shown in pickers.
func DisplayCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DisplayEmpty
	}
	if foldAccents(strings.ToLower(trimmed)) == "armario" {
		return displayCabinet
	}
	if strings.Contains(trimmed, "/") {
		parts := strings.Split(trimmed, "/")
		for i, part := range parts {
			parts[i] = capitalize(part)
		}
		return strings.Join(parts, "/")
	}
	return capitalize(trimmed)
}

// CompareCategories orders labels by the fixed priority list first and then
// by pt-BR collation.
func CompareCategories(a, b string) int {
	return compareCategories(newCollator(), a, b)
}

// SortCategories sorts labels in place using CompareCategories.
func SortCategories(labels []string) {
	col := newCollator()
	slices.SortStableFunc(labels, func(a, b string) int {
		return compareCategories(col, a, b)
	})
}

// Categories lists the meta filters followed by the distinct display labels
// of the items, in category order.
func Categories(items []models.StockItem) []string {
	seen := make(map[string]struct{}, len(items)+len(MetaFilters))
	labels := make([]string, 0, len(MetaFilters))
	add := func(label string) {
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	for _, label := range MetaFilters {
		add(label)
	}
	for _, item := range items {
		add(DisplayCategory(item.Category))
	}

	SortCategories(labels)
	return labels
}

func compareCategories(col *collate.Collator, a, b string) int {
	rankA, okA := categoryRank[a]
	rankB, okB := categoryRank[b]
	switch {
	case okA && okB:
		return rankA - rankB
	case okA:
		return -1
	case okB:
		return 1
	}
	return col.CompareString(a, b)
}

// newCollator returns a case-insensitive pt-BR collator. Collators are not
// safe for concurrent use, so callers create one per operation.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
