package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/repository/mongodb"
	"github.com/mamadbah2/estoque/internal/repository/sheets"
	"github.com/mamadbah2/estoque/internal/repository/xlsx"
	"github.com/mamadbah2/estoque/internal/scheduler"
	"github.com/mamadbah2/estoque/internal/server/handlers"
	"github.com/mamadbah2/estoque/internal/server/router"
	"github.com/mamadbah2/estoque/internal/service/accounts"
	"github.com/mamadbah2/estoque/internal/service/inventory"
	"github.com/mamadbah2/estoque/internal/service/reporting"
	"github.com/mamadbah2/estoque/pkg/clients/firestore"
	"github.com/mamadbah2/estoque/pkg/logger"
)

const startupTimeout = 30 * time.Second

// sources holds every configured reader of raw stock records.
type sources struct {
	mongo     *mongodb.MongoDBRepository
	sheets    *sheets.StockSource
	firestore *firestore.APIClient
	workbook  *xlsx.FileSource
}

func (s sources) pick(name string) (inventory.Source, error) {
	switch name {
	case config.SourceMongoDB:
		return s.mongo, nil
	case config.SourceSheets:
		if s.sheets != nil {
			return s.sheets, nil
		}
	case config.SourceFirestore:
		if s.firestore != nil {
			return s.firestore, nil
		}
	case config.SourceXLSX:
		if s.workbook != nil {
			return s.workbook, nil
		}
	}
	return nil, fmt.Errorf("stock source %q is not available", name)
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	mongoRepo, err := mongodb.NewMongoDBRepository(startCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()
	if err := mongoRepo.EnsureIndexes(startCtx); err != nil {
		baseLogger.Fatal("failed to create mongodb indexes", zap.Error(err))
	}

	available := sources{mongo: mongoRepo}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(startCtx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		available.sheets = sheets.NewStockSource(sheetsRepo, cfg.Sheets.StockRange, logger.Named(baseLogger, "repo.sheets.stock"))
	} else {
		baseLogger.Info("google sheets not configured, spreadsheet source and report sink disabled")
	}

	if cfg.Firestore.Enabled() {
		available.firestore = firestore.NewClient(cfg.Firestore)
		baseLogger.Info("firestore client enabled", zap.String("project", cfg.Firestore.ProjectID))
	}

	if cfg.XLSX.Path != "" {
		available.workbook = xlsx.NewFileSource(cfg.XLSX.Path, cfg.XLSX.Sheet, logger.Named(baseLogger, "repo.xlsx"))
	}

	source, err := available.pick(cfg.Inventory.Source)
	if err != nil {
		baseLogger.Fatal("invalid ingest source", zap.Error(err))
	}

	// Mutations are only possible when the store is also what the snapshot is read from.
	var store inventory.Store
	if cfg.Inventory.Source == config.SourceMongoDB {
		store = mongoRepo
	}

	var seed inventory.Source
	if cfg.Inventory.SeedSource != "" {
		if seed, err = available.pick(cfg.Inventory.SeedSource); err != nil {
			baseLogger.Fatal("invalid seed source", zap.Error(err))
		}
	}

	inventorySvc, err := inventory.NewService(source, store, inventory.Config{
		NearExpirationDays: cfg.Inventory.NearExpirationDays,
		LowStockThreshold:  cfg.Inventory.LowStockThreshold,
		ViewCacheSize:      cfg.Inventory.ViewCacheSize,
	}, logger.Named(baseLogger, "svc.inventory"))
	if err != nil {
		baseLogger.Fatal("failed to init inventory service", zap.Error(err))
	}
	if _, err := inventorySvc.Refresh(startCtx); err != nil {
		baseLogger.Warn("initial stock load failed, retrying on first request", zap.Error(err))
	}

	accountsSvc := accounts.NewService(mongoRepo, accounts.Config{
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
		SessionTTL:    cfg.Auth.SessionTTL,
	}, logger.Named(baseLogger, "svc.accounts"))
	if err := accountsSvc.Init(startCtx); err != nil {
		baseLogger.Fatal("failed to init accounts", zap.Error(err))
	}

	reportingSvc := reporting.NewService(inventorySvc, mongoRepo, sheetsRepo, reporting.Config{
		NearExpirationDays: cfg.Inventory.NearExpirationDays,
		LowStockThreshold:  cfg.Inventory.LowStockThreshold,
		ReportRange:        cfg.Sheets.ReportRange,
	}, logger.Named(baseLogger, "svc.reporting"))

	sched, err := scheduler.NewScheduler(cfg.Scheduler, inventorySvc, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	engine := router.New(
		handlers.NewStockHandler(inventorySvc, seed, logger.Named(baseLogger, "handlers.stock")),
		handlers.NewAuthHandler(accountsSvc, logger.Named(baseLogger, "handlers.auth")),
		accountsSvc,
		router.Config{SearchRatePerMin: cfg.Server.SearchRatePerMin},
		logger.Named(baseLogger, "router"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("ingest_source", cfg.Inventory.Source),
			zap.Bool("read_only", inventorySvc.ReadOnly()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
