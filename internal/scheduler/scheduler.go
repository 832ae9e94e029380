package scheduler

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/service/inventory"
)

const (
	refreshTimeout = time.Minute
	reportTimeout  = 2 * time.Minute
)

// Refresher reloads the stock snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (inventory.Snapshot, error)
}

// Publisher produces and stores the stock report.
type Publisher interface {
	PublishStockReport(ctx context.Context, now time.Time) (models.StockReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	publisher Publisher
	location  *time.Location
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance and registers the refresh and
// report jobs. An empty cron expression disables the matching job.
func NewScheduler(cfg config.SchedulerConfig, refresher Refresher, publisher Publisher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		refresher: refresher,
		publisher: publisher,
		location:  loc,
		logger:    logger,
	}

	if cfg.RefreshCron != "" && refresher != nil {
		if _, err := s.cron.AddFunc(cfg.RefreshCron, s.refreshStock); err != nil {
			return nil, fmt.Errorf("schedule stock refresh %q: %w", cfg.RefreshCron, err)
		}
	}
	if cfg.ReportCron != "" && publisher != nil {
		if _, err := s.cron.AddFunc(cfg.ReportCron, s.publishReport); err != nil {
			return nil, fmt.Errorf("schedule stock report %q: %w", cfg.ReportCron, err)
		}
	}

	return s, nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", s.Jobs()), zap.String("timezone", s.location.String()))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshStock() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	snap, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Error("scheduled stock refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("stock refreshed", zap.Uint64("generation", snap.Generation), zap.Int("items", len(snap.Items)))
}

func (s *Scheduler) publishReport() {
	s.logger.Info("generating stock report")
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	report, err := s.publisher.PublishStockReport(ctx, time.Now().In(s.location))
	if err != nil {
		s.logger.Error("failed to publish stock report", zap.Error(err))
		return
	}
	s.logger.Info("stock report sent successfully", zap.Int("alerts", len(report.Alerts)))
}
