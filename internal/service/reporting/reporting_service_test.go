package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/service/inventory"
)

type fakeInventory struct {
	snap inventory.Snapshot
	err  error
}

func (f fakeInventory) Snapshot(context.Context) (inventory.Snapshot, error) {
	return f.snap, f.err
}

type fakeReports struct {
	saved []models.StockReport
	err   error
}

func (f *fakeReports) SaveStockReport(_ context.Context, report models.StockReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, report)
	return nil
}

type fakeSheet struct {
	ranges []string
	rows   [][]interface{}
	err    error
}

func (f *fakeSheet) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.ranges = append(f.ranges, sheetRange)
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeSheet) ReadRange(context.Context, string) ([][]interface{}, error) {
	return nil, nil
}

var reportNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func reportFixture() inventory.Snapshot {
	return inventory.Snapshot{
		Generation: 4,
		Items: []models.StockItem{
			{ID: "A", Name: "Leite", Category: "A", Quantity: "12", ExpirationDate: "2025-03-20"},
			{ID: "B", Name: "Queijo", Category: "B", Quantity: "3", ExpirationDate: "2025-01-01"},
			{ID: "C", Name: "Arroz", Category: "C", Quantity: "40", ExpirationDate: "2026-01-01"},
			{ID: "D", Name: "Feijao", Category: "C", Quantity: "0", ExpirationDate: "2026-01-01"},
			{ID: "E", Name: "Manteiga", Category: "A", Quantity: "2", ExpirationDate: "2025-03-12"},
			{ID: "F", Name: "Farinha", Category: "D", Quantity: "7", ExpirationDate: "INDETERMINADO"},
		},
	}
}

func TestBuildStockReport(t *testing.T) {
	svc := NewService(fakeInventory{snap: reportFixture()}, &fakeReports{}, nil, Config{}, nil)

	report, err := svc.BuildStockReport(context.Background(), reportNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, 6, report.TotalItems)
	assert.Equal(t, 2, report.InStock)
	assert.Equal(t, 1, report.OutOfStock)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, 2, report.NearExpiration)
	assert.Equal(t, 2, report.LowStock)
	assert.Equal(t, uint64(4), report.SnapshotVersion)

	require.Len(t, report.Alerts, 3)
	assert.Equal(t, "B", report.Alerts[0].ItemID)
	assert.Equal(t, models.StatusExpired, report.Alerts[0].Status)
	assert.Equal(t, "E", report.Alerts[1].ItemID)
	assert.Equal(t, "A", report.Alerts[2].ItemID)
	assert.Equal(t, models.StatusNearExpiration, report.Alerts[2].Status)
}

func TestBuildStockReportWindow(t *testing.T) {
	svc := NewService(fakeInventory{snap: reportFixture()}, &fakeReports{}, nil, Config{NearExpirationDays: 5}, nil)

	report, err := svc.BuildStockReport(context.Background(), reportNow)
	require.NoError(t, err)
	assert.Equal(t, 1, report.NearExpiration)
	assert.Equal(t, 3, report.InStock)
}

func TestBuildStockReportSnapshotError(t *testing.T) {
	svc := NewService(fakeInventory{err: errors.New("mongo down")}, &fakeReports{}, nil, Config{}, nil)

	_, err := svc.BuildStockReport(context.Background(), reportNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo down")
}

func TestPublishStockReport(t *testing.T) {
	store := &fakeReports{}
	sheet := &fakeSheet{}
	svc := NewService(fakeInventory{snap: reportFixture()}, store, sheet, Config{ReportRange: "Alertas!A:G"}, nil)

	report, err := svc.PublishStockReport(context.Background(), reportNow)
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Equal(t, report, store.saved[0])

	require.Len(t, sheet.rows, 3)
	assert.Equal(t, []string{"Alertas!A:G"}, sheet.ranges)
	assert.Equal(t, []interface{}{"2025-03-10", "B", "Queijo", "B", "3", "2025-01-01", "EXPIRED"}, sheet.rows[0])
}

func TestPublishStockReportFailures(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		sheet := &fakeSheet{}
		svc := NewService(fakeInventory{snap: reportFixture()}, &fakeReports{err: errors.New("write failed")}, sheet, Config{ReportRange: "Alertas!A:G"}, nil)

		_, err := svc.PublishStockReport(context.Background(), reportNow)
		require.Error(t, err)
		assert.Empty(t, sheet.rows)
	})

	t.Run("sheet", func(t *testing.T) {
		store := &fakeReports{}
		svc := NewService(fakeInventory{snap: reportFixture()}, store, &fakeSheet{err: errors.New("quota")}, Config{ReportRange: "Alertas!A:G"}, nil)

		report, err := svc.PublishStockReport(context.Background(), reportNow)
		require.Error(t, err)
		assert.Len(t, store.saved, 1)
		assert.Len(t, report.Alerts, 3)
	})
}

func TestSummary(t *testing.T) {
	svc := NewService(fakeInventory{snap: reportFixture()}, &fakeReports{}, nil, Config{}, nil)
	report, err := svc.BuildStockReport(context.Background(), reportNow)
	require.NoError(t, err)

	summary := Summary(report)
	assert.Contains(t, summary, "Estoque 2025-03-10: 6 itens")
	assert.Contains(t, summary, "- Queijo (B) EXPIRED: 2025-01-01")

	assert.Contains(t, Summary(models.StockReport{Date: reportNow}), "Nenhum alerta.")
}
