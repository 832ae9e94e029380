package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/service/inventory"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (inventory.Snapshot, error) {
	f.calls++
	return inventory.Snapshot{Generation: uint64(f.calls)}, f.err
}

type fakePublisher struct {
	at []time.Time
}

func (f *fakePublisher) PublishStockReport(_ context.Context, now time.Time) (models.StockReport, error) {
	f.at = append(f.at, now)
	return models.StockReport{}, nil
}

func TestNewScheduler(t *testing.T) {
	cfg := config.SchedulerConfig{RefreshCron: "*/15 * * * *", ReportCron: "0 20 * * *", Timezone: "America/Sao_Paulo"}

	s, err := NewScheduler(cfg, &fakeRefresher{}, &fakePublisher{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Jobs())
	assert.Equal(t, "America/Sao_Paulo", s.location.String())

	cfg.RefreshCron = ""
	s, err = NewScheduler(cfg, &fakeRefresher{}, &fakePublisher{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs())

	s, err = NewScheduler(config.SchedulerConfig{ReportCron: "0 20 * * *"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, s.Jobs())
	assert.Equal(t, time.UTC, s.location)
}

func TestNewSchedulerRejectsBadSettings(t *testing.T) {
	_, err := NewScheduler(config.SchedulerConfig{Timezone: "Mars/Olympus"}, &fakeRefresher{}, &fakePublisher{}, nil)
	assert.Error(t, err)

	_, err = NewScheduler(config.SchedulerConfig{RefreshCron: "every minute"}, &fakeRefresher{}, &fakePublisher{}, nil)
	assert.Error(t, err)

	_, err = NewScheduler(config.SchedulerConfig{ReportCron: "61 * * * *"}, &fakeRefresher{}, &fakePublisher{}, nil)
	assert.Error(t, err)
}

func TestJobs(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("source offline")}
	publisher := &fakePublisher{}
	s, err := NewScheduler(config.SchedulerConfig{Timezone: "America/Sao_Paulo"}, refresher, publisher, nil)
	require.NoError(t, err)

	s.refreshStock()
	s.publishReport()

	assert.Equal(t, 1, refresher.calls)
	require.Len(t, publisher.at, 1)
	assert.Equal(t, "America/Sao_Paulo", publisher.at[0].Location().String())
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(config.SchedulerConfig{RefreshCron: "@every 1h"}, &fakeRefresher{}, nil, nil)
	require.NoError(t, err)

	s.Start()
	s.Stop()
}
