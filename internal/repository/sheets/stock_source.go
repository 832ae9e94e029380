package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// headerAliases maps spreadsheet column titles onto raw record keys.
var headerAliases = map[string]string{
	"id":             models.FieldID,
	"codigo":         models.FieldID,
	"código":         models.FieldID,
	"name":           models.FieldName,
	"nome":           models.FieldName,
	"produto":        models.FieldName,
	"quantity":       models.FieldQuantity,
	"quantidade":     models.FieldQuantity,
	"qtd":            models.FieldQuantity,
	"expirationdate": models.FieldExpirationDate,
	"validade":       models.FieldExpirationDate,
	"vencimento":     models.FieldExpirationDate,
	"category":       models.FieldCategory,
	"categoria":      models.FieldCategory,
	"observation":    models.FieldObservation,
	"observacao":     models.FieldObservation,
	"observação":     models.FieldObservation,
	"obs":            models.FieldObservation,
}

// StockSource reads stock records from a spreadsheet range whose first row
// holds the column titles.
type StockSource struct {
	repo       Repository
	stockRange string
	logger     *zap.Logger
}

// NewStockSource wires a spreadsheet backed record source.
func NewStockSource(repo Repository, stockRange string, logger *zap.Logger) *StockSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockSource{repo: repo, stockRange: stockRange, logger: logger}
}

// FetchRaw reads the range and returns one record per non-empty data row.
func (s *StockSource) FetchRaw(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := s.repo.ReadRange(ctx, s.stockRange)
	if err != nil {
		return nil, fmt.Errorf("load stock range: %w", err)
	}

	records := RecordsFromRows(rows)
	s.logger.Debug("stock rows read from sheet",
		zap.String("range", s.stockRange),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// RecordsFromRows maps a header row plus data rows onto raw records. Columns
// with unknown titles are ignored and fully blank rows are skipped.
func RecordsFromRows(rows [][]interface{}) []models.RawRecord {
	if len(rows) == 0 {
		return nil
	}

	columns := make([]string, len(rows[0]))
	for i, title := range rows[0] {
		columns[i] = headerAliases[strings.ToLower(strings.TrimSpace(cast.ToString(title)))]
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := models.RawRecord{}
		blank := true
		for i, cell := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			record[columns[i]] = cell
			if strings.TrimSpace(cast.ToString(cell)) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		records = append(records, record)
	}
	return records
}
