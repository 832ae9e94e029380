package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/server/handlers"
)

// Config holds the router level settings.
type Config struct {
	SearchRatePerMin int
}

// New wires the Gin engine with required routes and middlewares.
func New(stock *handlers.StockHandler, auth *handlers.AuthHandler, sessions Authenticator, cfg Config, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/logout", auth.Logout)

	api := r.Group("/api", requireSession(sessions))

	stockGroup := api.Group("/stock")
	stockGroup.GET("", newRateLimiter(cfg.SearchRatePerMin).middleware(logger), stock.List)
	stockGroup.GET("/export", stock.Export)
	stockGroup.GET("/categories", stock.Categories)
	stockGroup.GET("/movements", stock.Movements)
	stockGroup.GET("/:id", stock.Get)
	stockGroup.POST("/:id/movements", stock.RegisterMovement)

	adminStock := stockGroup.Group("", requireAdmin())
	adminStock.POST("", stock.Create)
	adminStock.PUT("/:id", stock.Update)
	adminStock.DELETE("/:id", stock.Delete)
	adminStock.POST("/refresh", stock.Refresh)
	adminStock.POST("/sync", stock.Sync)

	admin := api.Group("/admin", requireAdmin())
	admin.GET("/diagnostics", stock.Diagnostics)
	admin.GET("/users", auth.ListUsers)
	admin.PUT("/users/:id", auth.UpdateUser)
	admin.DELETE("/users/:id", auth.DeleteUser)

	logger.Info("router initialized")
	return r
}
