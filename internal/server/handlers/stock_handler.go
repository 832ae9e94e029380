package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/repository/xlsx"
	"github.com/mamadbah2/estoque/internal/service/inventory"
	"github.com/mamadbah2/estoque/internal/stock"
)

// InventoryService is the part of the inventory service exposed over HTTP.
type InventoryService interface {
	View(ctx context.Context, query models.QueryConfig) (inventory.View, error)
	Categories(ctx context.Context) ([]string, error)
	Item(ctx context.Context, id string) (models.StockItem, error)
	Diagnostics(ctx context.Context) (stock.Diagnostics, error)
	Refresh(ctx context.Context) (inventory.Snapshot, error)
	Sync(ctx context.Context, seed inventory.Source) (inventory.SyncResult, error)
	AddItem(ctx context.Context, record models.RawRecord) (models.StockItem, error)
	UpdateItem(ctx context.Context, id string, record models.RawRecord) (models.StockItem, error)
	DeleteItem(ctx context.Context, id string) error
	RegisterMovement(ctx context.Context, itemID string, quantity int, kind models.MovementType, userID string) (models.Movement, error)
	Movements(ctx context.Context, itemID string, limit int) ([]models.Movement, error)
}

type movementRequest struct {
	Quantity int                 `json:"quantity" binding:"required,gt=0"`
	Type     models.MovementType `json:"type" binding:"required,oneof=entrada saida"`
}

// StockHandler serves the stock list and item management endpoints.
type StockHandler struct {
	svc    InventoryService
	seed   inventory.Source
	logger *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter. seed may be nil when no
// seed source is configured.
func NewStockHandler(svc InventoryService, seed inventory.Source, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, seed: seed, logger: logger}
}

// List returns the filtered, searched and sorted stock view.
func (h *StockHandler) List(c *gin.Context) {
	query := models.DefaultQueryConfig()
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	view, err := h.svc.View(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "failed to derive stock view", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Export renders the same view as List as a workbook download.
func (h *StockHandler) Export(c *gin.Context) {
	query := models.DefaultQueryConfig()
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	view, err := h.svc.View(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "failed to derive stock view", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="estoque.xlsx"`)
	c.Header("Content-Type", xlsx.ContentType)
	c.Status(http.StatusOK)
	if err := xlsx.WriteItems(c.Writer, view.StockItems()); err != nil {
		h.logger.Error("failed to write stock workbook", zap.Error(err))
	}
}

// Categories returns the filter options for the category selector.
func (h *StockHandler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Get returns a single item.
func (h *StockHandler) Get(c *gin.Context) {
	item, err := h.svc.Item(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to load stock item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds a new item from a raw record body.
func (h *StockHandler) Create(c *gin.Context) {
	var record models.RawRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), record)
	if err != nil {
		h.fail(c, "failed to add stock item", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update replaces an existing item.
func (h *StockHandler) Update(c *gin.Context) {
	var record models.RawRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), record)
	if err != nil {
		h.fail(c, "failed to update stock item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item.
func (h *StockHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "failed to delete stock item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterMovement records an entry or exit for the item in the path.
func (h *StockHandler) RegisterMovement(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, _ := SessionFrom(c)
	movement, err := h.svc.RegisterMovement(c.Request.Context(), c.Param("id"), req.Quantity, req.Type, session.User.ID)
	if err != nil {
		h.fail(c, "failed to register movement", err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// Movements lists the newest movements, optionally filtered by ?item=.
func (h *StockHandler) Movements(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	movements, err := h.svc.Movements(c.Request.Context(), c.Query("item"), limit)
	if err != nil {
		h.fail(c, "failed to list movements", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

// Refresh reloads the snapshot from the ingest source.
func (h *StockHandler) Refresh(c *gin.Context) {
	snap, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to refresh stock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"generation": snap.Generation,
		"items":      len(snap.Items),
		"loaded_at":  snap.LoadedAt,
	})
}

// Sync merges the seed source into the store.
func (h *StockHandler) Sync(c *gin.Context) {
	if h.seed == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no seed source configured"})
		return
	}

	result, err := h.svc.Sync(c.Request.Context(), h.seed)
	if err != nil {
		h.fail(c, "failed to sync stock", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Diagnostics reports data quality problems in the current snapshot.
func (h *StockHandler) Diagnostics(c *gin.Context) {
	report, err := h.svc.Diagnostics(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to build diagnostics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"healthy": report.Healthy(), "diagnostics": report})
}

func (h *StockHandler) fail(c *gin.Context, msg string, err error) {
	status := stockStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	h.logger.Info(msg, zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func stockStatus(err error) int {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInvalidItem), errors.Is(err, inventory.ErrInvalidMovement):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrItemExists), errors.Is(err, inventory.ErrInsufficientStock), errors.Is(err, inventory.ErrReadOnly):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
