package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/proposal-vault/internal/db"
	"github.com/david/proposal-vault/internal/models"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, db.DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "proposal_vault.db", cfg.SQLitePath)
	assert.Equal(t, models.VersionKIF, cfg.OverrideVersion)
	assert.Equal(t, 32, cfg.MaxUploadMB)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"PORT":             "9000",
		"DATABASE_URL":     "postgres://localhost/vault",
		"OVERRIDE_VERSION": "none",
		"MAX_UPLOAD_MB":    "8",
		"CORS_ORIGINS":     "https://a.example, ,https://b.example",
		"LOG_LEVEL":        "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, db.DriverPostgres, cfg.StoreDriver, "inferred from DATABASE_URL")
	assert.Empty(t, cfg.OverrideVersion)
	assert.Equal(t, 8, cfg.MaxUploadMB)
	assert.Equal(t, []string{"http://localhost:4200", "https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, db.Options{Driver: db.DriverPostgres, DatabaseURL: "postgres://localhost/vault"}, cfg.StoreOptions())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadNumber(t *testing.T) {
	_, err := load(env(map[string]string{"MAX_UPLOAD_MB": "lots"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := load(env(map[string]string{"STORE_DRIVER": "Bolt", "MAX_UPLOAD_MB": "0", "PORT": "http", "LOG_LEVEL": "loud"}))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"STORE_DRIVER", "MAX_UPLOAD_MB", "PORT", "log level"} {
		assert.Contains(t, err.Error(), want)
	}
}
