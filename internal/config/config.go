package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Ingestion sources the stock snapshot can be read from.
const (
	SourceMongoDB   = "mongodb"
	SourceSheets    = "sheets"
	SourceFirestore = "firestore"
	SourceXLSX      = "xlsx"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Inventory InventoryConfig
	Sheets    SheetsConfig
	Firestore FirestoreConfig
	XLSX      XLSXConfig
	Scheduler SchedulerConfig
	Auth      AuthConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port             string
	LogLevel         string
	SearchRatePerMin int
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// InventoryConfig drives the stock pipeline and its caches.
type InventoryConfig struct {
	// Source is where snapshots are read from.
	Source string
	// SeedSource, when set, is merged into MongoDB by the sync endpoint.
	SeedSource         string
	NearExpirationDays int
	LowStockThreshold  int
	ViewCacheSize      int
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	StockRange      string
	ReportRange     string
}

// Enabled reports whether enough settings are present to reach the spreadsheet.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// FirestoreConfig points the REST reader at a Firestore collection.
type FirestoreConfig struct {
	BaseURL    string
	ProjectID  string
	APIKey     string
	Collection string
}

// Enabled reports whether a Firestore project is configured.
func (f FirestoreConfig) Enabled() bool {
	return f.ProjectID != ""
}

// XLSXConfig points at a workbook used as a stock source.
type XLSXConfig struct {
	Path  string
	Sheet string
}

// SchedulerConfig holds the cron specs of the background jobs.
type SchedulerConfig struct {
	RefreshCron string
	ReportCron  string
	Timezone    string
}

// AuthConfig holds the bootstrap admin account and session lifetime.
type AuthConfig struct {
	AdminEmail    string
	AdminPassword string
	SessionTTL    time.Duration
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	var err error
	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: strings.ToLower(getenvWithDefault("LOG_LEVEL", "info")),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "estoque"),
		},
		Inventory: InventoryConfig{
			Source:     strings.ToLower(getenvWithDefault("INGEST_SOURCE", SourceMongoDB)),
			SeedSource: strings.ToLower(os.Getenv("SEED_SOURCE")),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			StockRange:      getenvWithDefault("SHEETS_STOCK_RANGE", "Estoque!A:F"),
			ReportRange:     getenvWithDefault("SHEETS_REPORT_RANGE", "Alertas!A:G"),
		},
		Firestore: FirestoreConfig{
			BaseURL:    getenvWithDefault("FIRESTORE_BASE_URL", "https://firestore.googleapis.com/v1"),
			ProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
			APIKey:     os.Getenv("FIRESTORE_API_KEY"),
			Collection: getenvWithDefault("FIRESTORE_COLLECTION", "stock"),
		},
		XLSX: XLSXConfig{
			Path:  os.Getenv("XLSX_SOURCE_PATH"),
			Sheet: os.Getenv("XLSX_SOURCE_SHEET"),
		},
		Scheduler: SchedulerConfig{
			RefreshCron: getenvWithDefault("REFRESH_CRON", "*/15 * * * *"),
			ReportCron:  getenvWithDefault("REPORT_CRON", "0 20 * * *"),
			Timezone:    getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		Auth: AuthConfig{
			AdminEmail:    strings.ToLower(getenvWithDefault("ADMIN_EMAIL", "admin@admin.com")),
			AdminPassword: getenvWithDefault("ADMIN_PASSWORD", "admin123"),
		},
	}

	if cfg.Server.SearchRatePerMin, err = getenvInt("SEARCH_RATE_PER_MIN", 120); err != nil {
		return nil, err
	}
	if cfg.Inventory.NearExpirationDays, err = getenvInt("NEAR_EXPIRATION_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.Inventory.LowStockThreshold, err = getenvInt("LOW_STOCK_THRESHOLD", 5); err != nil {
		return nil, err
	}
	if cfg.Inventory.ViewCacheSize, err = getenvInt("VIEW_CACHE_SIZE", 128); err != nil {
		return nil, err
	}
	if cfg.Auth.SessionTTL, err = getenvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Server.SearchRatePerMin <= 0 {
		return errors.New("SEARCH_RATE_PER_MIN must be positive")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if err := c.validateSource("INGEST_SOURCE", c.Inventory.Source); err != nil {
		return err
	}
	if c.Inventory.SeedSource != "" {
		if c.Inventory.SeedSource == SourceMongoDB {
			return errors.New("SEED_SOURCE cannot be mongodb")
		}
		if err := c.validateSource("SEED_SOURCE", c.Inventory.SeedSource); err != nil {
			return err
		}
	}

	if c.Inventory.NearExpirationDays <= 0 {
		return errors.New("NEAR_EXPIRATION_DAYS must be positive")
	}
	if c.Inventory.LowStockThreshold <= 0 {
		return errors.New("LOW_STOCK_THRESHOLD must be positive")
	}
	if c.Inventory.ViewCacheSize <= 0 {
		return errors.New("VIEW_CACHE_SIZE must be positive")
	}

	if c.Scheduler.RefreshCron == "" {
		return errors.New("REFRESH_CRON must be provided")
	}
	if c.Scheduler.ReportCron == "" {
		return errors.New("REPORT_CRON must be provided")
	}
	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	switch {
	case c.Auth.AdminEmail == "":
		return errors.New("ADMIN_EMAIL must be provided")
	case len(c.Auth.AdminPassword) < 6:
		return errors.New("ADMIN_PASSWORD must have at least 6 characters")
	case c.Auth.SessionTTL <= 0:
		return errors.New("SESSION_TTL must be positive")
	}

	return nil
}

func (c *Config) validateSource(key, source string) error {
	switch source {
	case SourceMongoDB:
		return nil
	case SourceSheets:
		if !c.Sheets.Enabled() {
			return fmt.Errorf("%s=sheets requires GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID", key)
		}
		return nil
	case SourceFirestore:
		if !c.Firestore.Enabled() {
			return fmt.Errorf("%s=firestore requires FIRESTORE_PROJECT_ID", key)
		}
		return nil
	case SourceXLSX:
		if c.XLSX.Path == "" {
			return fmt.Errorf("%s=xlsx requires XLSX_SOURCE_PATH", key)
		}
		return nil
	default:
		return fmt.Errorf("%s must be one of mongodb, sheets, firestore, xlsx (got %q)", key, source)
	}
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := cast.ToIntE(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := cast.ToDurationE(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
