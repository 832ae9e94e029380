package xlsx

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/repository/sheets"
)

// ContentType is the media type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{"ID", "Nome", "Categoria", "Quantidade", "Validade", "Status", "Observação"}

// FileSource reads stock records from a workbook on disk. The first row of the
// sheet holds the column titles, as in the Google Sheets stock range.
type FileSource struct {
	path   string
	sheet  string
	logger *zap.Logger
}

// NewFileSource wires a workbook backed record source. An empty sheet name
// selects the first sheet.
func NewFileSource(path, sheet string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{path: path, sheet: sheet, logger: logger}
}

// FetchRaw opens the workbook and returns one record per non-empty data row.
func (s *FileSource) FetchRaw(ctx context.Context) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	records, err := ReadRecords(file, s.sheet)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("stock rows read from workbook", zap.String("path", s.path), zap.Int("records", len(records)))
	return records, nil
}

// ReadRecords parses a workbook into raw records.
func ReadRecords(r io.Reader, sheet string) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	cells := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells[i] = make([]interface{}, len(row))
		for j, value := range row {
			cells[i][j] = value
		}
	}
	return sheets.RecordsFromRows(cells), nil
}

// WriteItems renders items as a single sheet workbook.
func WriteItems(w io.Writer, items []models.StockItem) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, item.ID)
		set(2, item.Name)
		set(3, item.Category)
		set(4, item.Quantity)
		set(5, item.ExpirationDate)
		set(6, string(item.Status))
		set(7, item.Observation)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
