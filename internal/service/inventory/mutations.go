package inventory

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/stock"
)

const defaultMovementLimit = 50

// AddItem normalizes record and stores it as a new item.
func (s *Service) AddItem(ctx context.Context, record models.RawRecord) (models.StockItem, error) {
	item, err := s.writable(record)
	if err != nil {
		return models.StockItem{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.StockItem{}, err
	}
	if _, err := findItem(snap.Items, item.ID); err == nil {
		return models.StockItem{}, fmt.Errorf("%w: %s", ErrItemExists, item.ID)
	}

	if _, err := s.store.UpsertItem(ctx, item); err != nil {
		return models.StockItem{}, fmt.Errorf("store item %s: %w", item.ID, err)
	}
	s.logger.Info("stock item added", zap.String("item_id", item.ID))

	return item, s.rebuild(ctx)
}

// UpdateItem replaces the item with the given id by record. The id in the path
// wins over any id inside record.
func (s *Service) UpdateItem(ctx context.Context, id string, record models.RawRecord) (models.StockItem, error) {
	patched := make(models.RawRecord, len(record)+1)
	for key, value := range record {
		patched[key] = value
	}
	patched[models.FieldID] = id

	item, err := s.writable(patched)
	if err != nil {
		return models.StockItem{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.StockItem{}, err
	}
	if _, err := findItem(snap.Items, item.ID); err != nil {
		return models.StockItem{}, err
	}

	if _, err := s.store.UpsertItem(ctx, item); err != nil {
		return models.StockItem{}, fmt.Errorf("store item %s: %w", item.ID, err)
	}
	s.logger.Info("stock item updated", zap.String("item_id", item.ID))

	return item, s.rebuild(ctx)
}

// DeleteItem removes the item with the given id.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if s.ReadOnly() {
		return ErrReadOnly
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id = stock.NormalizeID(id)
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	if _, err := findItem(snap.Items, id); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	s.logger.Info("stock item deleted", zap.String("item_id", id))

	return s.rebuild(ctx)
}

// RegisterMovement records stock entering or leaving and adjusts the item
// quantity. An exit larger than the current quantity is rejected.
func (s *Service) RegisterMovement(ctx context.Context, itemID string, quantity int, kind models.MovementType, userID string) (models.Movement, error) {
	if s.ReadOnly() {
		return models.Movement{}, ErrReadOnly
	}
	if quantity <= 0 {
		return models.Movement{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidMovement)
	}
	if kind != models.MovementIn && kind != models.MovementOut {
		return models.Movement{}, fmt.Errorf("%w: unknown type %q", ErrInvalidMovement, kind)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	itemID = stock.NormalizeID(itemID)
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Movement{}, err
	}
	item, err := findItem(snap.Items, itemID)
	if err != nil {
		return models.Movement{}, err
	}

	current := stock.ParseQuantity(item.Quantity)
	next := current + int64(quantity)
	if kind == models.MovementOut {
		next = current - int64(quantity)
	}
	if next < 0 {
		return models.Movement{}, fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, itemID, current, quantity)
	}

	movement := models.Movement{
		ID:        s.newID(),
		ItemID:    itemID,
		Quantity:  quantity,
		Type:      kind,
		UserID:    userID,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.InsertMovement(ctx, movement); err != nil {
		return models.Movement{}, fmt.Errorf("record movement: %w", err)
	}
	if err := s.store.SetQuantity(ctx, itemID, strconv.FormatInt(next, 10)); err != nil {
		return models.Movement{}, fmt.Errorf("update quantity: %w", err)
	}

	s.logger.Info("stock movement registered",
		zap.String("item_id", itemID),
		zap.String("type", string(kind)),
		zap.Int("quantity", quantity),
		zap.Int64("from", current),
		zap.Int64("to", next),
		zap.String("user_id", userID),
	)

	return movement, s.rebuild(ctx)
}

// Movements lists the newest movements, optionally for a single item.
func (s *Service) Movements(ctx context.Context, itemID string, limit int) ([]models.Movement, error) {
	if s.ReadOnly() {
		return []models.Movement{}, nil
	}
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	if itemID != "" {
		itemID = stock.NormalizeID(itemID)
	}

	movements, err := s.store.ListMovements(ctx, itemID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

// writable normalizes a record headed for the store.
func (s *Service) writable(record models.RawRecord) (models.StockItem, error) {
	if s.ReadOnly() {
		return models.StockItem{}, ErrReadOnly
	}
	item, ok := s.transformer.Item(record)
	if !ok {
		return models.StockItem{}, fmt.Errorf("%w: id and name are required", ErrInvalidItem)
	}
	if item.ID == models.IDNone {
		return models.StockItem{}, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	return item, nil
}

// rebuild reloads the snapshot after a write.
func (s *Service) rebuild(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("rebuild snapshot: %w", err)
	}
	return nil
}
