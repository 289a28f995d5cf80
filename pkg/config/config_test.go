package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "read_committed", cfg.Ledger.Isolation)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, cfg.Ledger.RetryBaseDelay)
	assert.True(t, cfg.Ledger.AllowNegative)
	assert.Equal(t, "last_write_wins", cfg.Ledger.CostPolicy)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("LEDGER_ISOLATION", "serializable")
	t.Setenv("LEDGER_ALLOW_NEGATIVE", "false")
	t.Setenv("LEDGER_MAX_RETRIES", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "serializable", cfg.Ledger.Isolation)
	assert.False(t, cfg.Ledger.AllowNegative)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestLoad_AislamientoInvalido(t *testing.T) {
	t.Setenv("LEDGER_ISOLATION", "chaos")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
