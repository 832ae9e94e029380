package xlsx

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadRecords(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{"Código", "Produto", "Qtd", "Validade", "Categoria", "Cor"},
		{"A 1", "Luva nitrílica", "3 CX", "20/03/2025", "a", "azul"},
		{},
		{"B2", "Máscara", 10, "", "", ""},
	})

	records, err := ReadRecords(bytes.NewReader(blob), "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.RawRecord{
		models.FieldID:             "A 1",
		models.FieldName:           "Luva nitrílica",
		models.FieldQuantity:       "3 CX",
		models.FieldExpirationDate: "20/03/2025",
		models.FieldCategory:       "a",
	}, records[0])
	assert.Equal(t, "10", records[1][models.FieldQuantity])
}

func TestReadRecordsUnknownSheet(t *testing.T) {
	blob := mkXLSX(t, [][]any{{"id"}})
	_, err := ReadRecords(bytes.NewReader(blob), "Inexistente")
	assert.Error(t, err)

	_, err = ReadRecords(bytes.NewReader([]byte("not a workbook")), "")
	assert.Error(t, err)
}

func TestWriteItemsRoundTrip(t *testing.T) {
	items := []models.StockItem{
		{ID: "A1", Name: "Luva", Category: "A", Quantity: "3", ExpirationDate: "2025-03-20", Status: models.StatusInStock, Observation: "caixa aberta"},
		{ID: "B2", Name: "Máscara", Category: "SEM CATEGORIA", Quantity: "0", ExpirationDate: models.DateIndeterminate, Status: models.StatusOutOfStock},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, items))

	dir := t.TempDir()
	path := filepath.Join(dir, "estoque.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	records, err := NewFileSource(path, "", nil).FetchRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	for i, item := range items {
		assert.Equal(t, item.ID, records[i][models.FieldID])
		assert.Equal(t, item.Name, records[i][models.FieldName])
		assert.Equal(t, item.Quantity, records[i][models.FieldQuantity])
		assert.Equal(t, item.ExpirationDate, records[i][models.FieldExpirationDate])
		assert.NotContains(t, records[i], "status")
	}
	assert.Equal(t, "caixa aberta", records[0][models.FieldObservation])
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nada.xlsx"), "", nil).FetchRaw(context.Background())
	assert.Error(t, err)
}
