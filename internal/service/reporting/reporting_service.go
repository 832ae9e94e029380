package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
	repo "github.com/mamadbah2/estoque/internal/repository/sheets"
	"github.com/mamadbah2/estoque/internal/service/inventory"
	"github.com/mamadbah2/estoque/internal/stock"
)

const dateLayout = "2006-01-02"

// Inventory exposes the stock snapshot being reported on.
type Inventory interface {
	Snapshot(ctx context.Context) (inventory.Snapshot, error)
}

// ReportStore persists generated reports.
type ReportStore interface {
	SaveStockReport(ctx context.Context, report models.StockReport) error
}

// Config tunes the alert thresholds and the spreadsheet sink.
type Config struct {
	NearExpirationDays int
	LowStockThreshold  int
	// ReportRange is where alert rows are appended when a sheet is configured.
	ReportRange string
}

// Service builds stock condition reports.
type Service struct {
	inventory Inventory
	store     ReportStore
	sheet     repo.Repository
	cfg       Config
	logger    *zap.Logger
}

// NewService wires a new reporting service instance. sheet may be nil.
func NewService(inv Inventory, store ReportStore, sheet repo.Repository, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NearExpirationDays <= 0 {
		cfg.NearExpirationDays = stock.DefaultNearExpirationDays
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = stock.DefaultLowStockThreshold
	}
	return &Service{inventory: inv, store: store, sheet: sheet, cfg: cfg, logger: logger}
}

// BuildStockReport counts items per status at now and lists those that are
// expired or about to expire, soonest first.
func (s *Service) BuildStockReport(ctx context.Context, now time.Time) (models.StockReport, error) {
	snap, err := s.inventory.Snapshot(ctx)
	if err != nil {
		return models.StockReport{}, fmt.Errorf("load stock snapshot: %w", err)
	}

	report := models.StockReport{
		Date:            startOfDay(now),
		TotalItems:      len(snap.Items),
		Alerts:          []models.StockAlert{},
		SnapshotVersion: snap.Generation,
		CreatedAt:       now.UTC(),
	}

	sorted := stock.DeriveView(snap.Items, models.QueryConfig{SortKey: models.SortByExpirationDate}, now)
	for _, item := range sorted {
		status := stock.Classify(item.Quantity, item.ExpirationDate, now, s.cfg.NearExpirationDays)
		switch status {
		case models.StatusInStock:
			report.InStock++
		case models.StatusOutOfStock:
			report.OutOfStock++
		case models.StatusExpired:
			report.Expired++
		case models.StatusNearExpiration:
			report.NearExpiration++
		}
		if stock.IsLowStock(item.Quantity, s.cfg.LowStockThreshold) {
			report.LowStock++
		}

		if status == models.StatusExpired || status == models.StatusNearExpiration {
			report.Alerts = append(report.Alerts, models.StockAlert{
				ItemID:         item.ID,
				Name:           item.Name,
				Category:       item.Category,
				Quantity:       item.Quantity,
				ExpirationDate: item.ExpirationDate,
				Status:         status,
			})
		}
	}

	return report, nil
}

// PublishStockReport builds the report, stores it and appends its alerts to
// the report sheet when one is configured.
func (s *Service) PublishStockReport(ctx context.Context, now time.Time) (models.StockReport, error) {
	report, err := s.BuildStockReport(ctx, now)
	if err != nil {
		return models.StockReport{}, err
	}

	if err := s.store.SaveStockReport(ctx, report); err != nil {
		return models.StockReport{}, fmt.Errorf("save stock report: %w", err)
	}

	if s.sheet != nil && s.cfg.ReportRange != "" && len(report.Alerts) > 0 {
		rows := make([][]interface{}, 0, len(report.Alerts))
		for _, alert := range report.Alerts {
			rows = append(rows, alertRow(report.Date, alert))
		}
		if err := s.sheet.AppendRows(ctx, s.cfg.ReportRange, rows); err != nil {
			return report, fmt.Errorf("append alerts to sheet: %w", err)
		}
	}

	s.logger.Info("stock report published",
		zap.Time("date", report.Date),
		zap.Int("total", report.TotalItems),
		zap.Int("expired", report.Expired),
		zap.Int("near_expiration", report.NearExpiration),
		zap.Int("alerts", len(report.Alerts)),
	)
	return report, nil
}

// Summary renders a short human readable description of the report.
func Summary(report models.StockReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estoque %s: %d itens, %d em estoque, %d sem estoque, %d vencidos, %d vencendo, %d com estoque baixo.",
		report.Date.Format(dateLayout), report.TotalItems, report.InStock, report.OutOfStock,
		report.Expired, report.NearExpiration, report.LowStock)

	if len(report.Alerts) == 0 {
		b.WriteString(" Nenhum alerta.")
		return b.String()
	}
	for _, alert := range report.Alerts {
		fmt.Fprintf(&b, "\n- %s (%s) %s: %s", alert.Name, alert.ItemID, alert.Status, alert.ExpirationDate)
	}
	return b.String()
}

func alertRow(date time.Time, alert models.StockAlert) []interface{} {
	return []interface{}{
		date.Format(dateLayout),
		alert.ItemID,
		alert.Name,
		alert.Category,
		alert.Quantity,
		alert.ExpirationDate,
		string(alert.Status),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
