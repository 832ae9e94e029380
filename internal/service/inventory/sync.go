package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// SyncResult reports what a seed merge changed.
type SyncResult struct {
	Added      int       `json:"added"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Generation uint64    `json:"generation"`
	SyncedAt   time.Time `json:"synced_at"`
}

// Sync upserts every record of seed into the store, counting new and replaced
// items, then rebuilds the snapshot. Records without a usable id are skipped.
func (s *Service) Sync(ctx context.Context, seed Source) (SyncResult, error) {
	if s.ReadOnly() {
		return SyncResult{}, ErrReadOnly
	}
	if seed == nil {
		return SyncResult{}, errors.New("seed source is required")
	}

	records, err := seed.FetchRaw(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load seed records: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var result SyncResult
	result.Skipped = len(records)
	for _, item := range s.transformer.Transform(records) {
		if item.ID == models.IDNone {
			continue
		}
		created, err := s.store.UpsertItem(ctx, item)
		if err != nil {
			return result, fmt.Errorf("store seed item %s: %w", item.ID, err)
		}
		if created {
			result.Added++
		} else {
			result.Updated++
		}
		result.Skipped--
	}

	snap, err := s.Refresh(ctx)
	if err != nil {
		return result, fmt.Errorf("rebuild snapshot: %w", err)
	}
	result.Generation = snap.Generation
	result.SyncedAt = snap.LoadedAt

	s.logger.Info("seed merged into stock",
		zap.Int("added", result.Added),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
