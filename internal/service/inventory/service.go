package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/stock"
)

const dayLayout = "2006-01-02"

var (
	// ErrInvalidItem is returned when a record would be dropped by the transformer.
	ErrInvalidItem = errors.New("invalid stock item")
	// ErrItemNotFound is returned when no item in the snapshot has the given id.
	ErrItemNotFound = errors.New("stock item not found")
	// ErrItemExists is returned when adding an id that is already stocked.
	ErrItemExists = errors.New("stock item already exists")
	// ErrInsufficientStock is returned when an exit would leave a negative quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidMovement is returned for non-positive quantities or unknown movement types.
	ErrInvalidMovement = errors.New("invalid stock movement")
	// ErrReadOnly is returned for mutations when no store is configured.
	ErrReadOnly = errors.New("inventory is read only")
)

// Source is a bulk reader of raw stock records.
type Source interface {
	FetchRaw(ctx context.Context) ([]models.RawRecord, error)
}

// Store persists item mutations and the movement history.
type Store interface {
	UpsertItem(ctx context.Context, item models.StockItem) (bool, error)
	DeleteItem(ctx context.Context, id string) error
	SetQuantity(ctx context.Context, id, quantity string) error
	InsertMovement(ctx context.Context, movement models.Movement) error
	ListMovements(ctx context.Context, itemID string, limit int64) ([]models.Movement, error)
}

// Config tunes the pipeline and the view cache.
type Config struct {
	NearExpirationDays int
	LowStockThreshold  int
	ViewCacheSize      int
}

// Snapshot is an immutable, fully normalized copy of the stock.
type Snapshot struct {
	Items      []models.StockItem
	Generation uint64
	LoadedAt   time.Time
}

// day is the UTC calendar day the statuses were classified on. Statuses
// cannot change within a UTC day because expiration dates resolve to midnight UTC.
func (s *Snapshot) day() string {
	return s.LoadedAt.UTC().Format(dayLayout)
}

type viewKey struct {
	generation uint64
	query      models.QueryConfig
	day        string
}

// Service owns the stock snapshot and every operation derived from it.
type Service struct {
	source      Source
	store       Store
	transformer *stock.Transformer
	views       *lru.Cache[viewKey, View]
	lowStock    int
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string

	mu         sync.RWMutex
	snapshot   *Snapshot
	generation uint64

	refreshMu sync.Mutex
	writeMu   sync.Mutex
}

// NewService wires a new inventory service. store may be nil, in which case
// the inventory only serves reads.
func NewService(source Source, store Store, cfg Config, logger *zap.Logger) (*Service, error) {
	if source == nil {
		return nil, errors.New("inventory source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ViewCacheSize <= 0 {
		cfg.ViewCacheSize = 128
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = stock.DefaultLowStockThreshold
	}

	views, err := lru.New[viewKey, View](cfg.ViewCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create view cache: %w", err)
	}

	s := &Service{
		source:   source,
		store:    store,
		views:    views,
		lowStock: cfg.LowStockThreshold,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	s.transformer = stock.NewTransformer(
		stock.WithClock(func() time.Time { return s.now() }),
		stock.WithNearExpirationDays(cfg.NearExpirationDays),
	)
	return s, nil
}

// ReadOnly reports whether mutations are rejected.
func (s *Service) ReadOnly() bool {
	return s.store == nil
}

// LowStockThreshold returns the highest quantity flagged as low stock.
func (s *Service) LowStockThreshold() int {
	return s.lowStock
}

// Refresh reads every record from the source and swaps in a new snapshot.
// On error the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	started := s.now()
	records, err := s.source.FetchRaw(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load stock records: %w", err)
	}
	items := s.transformer.Transform(records)

	s.mu.Lock()
	s.generation++
	snap := &Snapshot{Items: items, Generation: s.generation, LoadedAt: s.now()}
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info("stock snapshot refreshed",
		zap.Uint64("generation", snap.Generation),
		zap.Int("records", len(records)),
		zap.Int("items", len(items)),
		zap.Int("dropped", len(records)-len(items)),
		zap.Duration("took", s.now().Sub(started)),
	)
	return *snap, nil
}

// Snapshot returns the current snapshot, loading it on first use. Statuses
// are reclassified when the snapshot was loaded on an earlier day.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap == nil {
		loaded, err := s.Refresh(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		snap = &loaded
	}

	now := s.now()
	if snap.day() != now.UTC().Format(dayLayout) {
		return Snapshot{
			Items:      s.transformer.Reclassify(snap.Items, now),
			Generation: snap.Generation,
			LoadedAt:   snap.LoadedAt,
		}, nil
	}
	return *snap, nil
}

// View derives the filtered, searched and sorted item list for query. Results
// are memoized per snapshot generation, query and day.
func (s *Service) View(ctx context.Context, query models.QueryConfig) (View, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return View{}, err
	}

	now := s.now()
	key := viewKey{generation: snap.Generation, query: query, day: now.UTC().Format(dayLayout)}
	if cached, ok := s.views.Get(key); ok {
		return cached, nil
	}

	view := newView(stock.DeriveView(snap.Items, query, now), query, snap.Generation, s.lowStock)
	s.views.Add(key, view)
	return view, nil
}

// Categories lists the filter labels for the current snapshot.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stock.Categories(snap.Items), nil
}

// Diagnostics inspects the current snapshot for data quality problems.
func (s *Service) Diagnostics(ctx context.Context) (stock.Diagnostics, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return stock.Diagnostics{}, err
	}
	return stock.Validate(snap.Items), nil
}

// Item returns the first item with the given id.
func (s *Service) Item(ctx context.Context, id string) (models.StockItem, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.StockItem{}, err
	}
	return findItem(snap.Items, stock.NormalizeID(id))
}

func findItem(items []models.StockItem, id string) (models.StockItem, error) {
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.StockItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}
