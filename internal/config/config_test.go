package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_PORT", "LOG_LEVEL", "SEARCH_RATE_PER_MIN", "MONGODB_URI", "MONGODB_DB_NAME",
	"INGEST_SOURCE", "SEED_SOURCE", "NEAR_EXPIRATION_DAYS", "LOW_STOCK_THRESHOLD", "VIEW_CACHE_SIZE",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "SHEETS_STOCK_RANGE", "SHEETS_REPORT_RANGE",
	"FIRESTORE_BASE_URL", "FIRESTORE_PROJECT_ID", "FIRESTORE_API_KEY", "FIRESTORE_COLLECTION", "XLSX_SOURCE_PATH", "XLSX_SOURCE_SHEET",
	"REFRESH_CRON", "REPORT_CRON", "TIMEZONE", "ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_TTL",
}

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.SearchRatePerMin)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "estoque", cfg.MongoDB.DBName)
	assert.Equal(t, SourceMongoDB, cfg.Inventory.Source)
	assert.Empty(t, cfg.Inventory.SeedSource)
	assert.Equal(t, 30, cfg.Inventory.NearExpirationDays)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 128, cfg.Inventory.ViewCacheSize)
	assert.Equal(t, "Estoque!A:F", cfg.Sheets.StockRange)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.Firestore.Enabled())
	assert.Equal(t, "America/Sao_Paulo", cfg.Scheduler.Timezone)
	assert.Equal(t, "admin@admin.com", cfg.Auth.AdminEmail)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range managedKeys {
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\n" +
		"INGEST_SOURCE=Firestore\n" +
		"FIRESTORE_PROJECT_ID=estoque-app\n" +
		"NEAR_EXPIRATION_DAYS=15\n" +
		"SESSION_TTL=90m\n" +
		"ADMIN_EMAIL=Chefe@Empresa.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, SourceFirestore, cfg.Inventory.Source)
	assert.True(t, cfg.Firestore.Enabled())
	assert.Equal(t, 15, cfg.Inventory.NearExpirationDays)
	assert.Equal(t, 90*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, "chefe@empresa.com", cfg.Auth.AdminEmail)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non numeric window", env: map[string]string{"NEAR_EXPIRATION_DAYS": "trinta"}},
		{name: "bad ttl", env: map[string]string{"SESSION_TTL": "amanhã"}},
		{name: "unknown source", env: map[string]string{"INGEST_SOURCE": "postgres"}},
		{name: "sheets without credentials", env: map[string]string{"INGEST_SOURCE": "sheets"}},
		{name: "xlsx without path", env: map[string]string{"SEED_SOURCE": "xlsx"}},
		{name: "non numeric rate", env: map[string]string{"SEARCH_RATE_PER_MIN": "muitos"}},
		{name: "mongo as seed", env: map[string]string{"SEED_SOURCE": "mongodb"}},
		{name: "short admin password", env: map[string]string{"ADMIN_PASSWORD": "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestXLSXSeedSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEED_SOURCE", "XLSX")
	t.Setenv("XLSX_SOURCE_PATH", "/data/estoque.xlsx")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, SourceXLSX, cfg.Inventory.SeedSource)
	assert.Equal(t, "/data/estoque.xlsx", cfg.XLSX.Path)
	assert.Empty(t, cfg.XLSX.Sheet)
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
