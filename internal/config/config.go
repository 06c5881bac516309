// Package config reads server and tool settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/david/proposal-vault/internal/db"
	"github.com/david/proposal-vault/internal/logging"
	"github.com/david/proposal-vault/internal/models"
)

const (
	defaultPort        = "8081"
	defaultMaxUploadMB = 32
	defaultSQLitePath  = "proposal_vault.db"
)

// defaultOrigins are always allowed by CORS.
var defaultOrigins = []string{"http://localhost:4200"}

type Config struct {
	Port            string
	DatabaseURL     string
	StoreDriver     string
	SQLitePath      string
	CatalogPath     string
	OverrideVersion string
	OutputDir       string
	UploadDir       string
	MaxUploadMB     int
	CORSOrigins     []string
	LogLevel        string
}

// Load reads the environment. It fails only on values that cannot be parsed;
// call Validate for semantic checks.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            defaultPort,
		DatabaseURL:     getenv("DATABASE_URL"),
		StoreDriver:     strings.ToLower(strings.TrimSpace(getenv("STORE_DRIVER"))),
		SQLitePath:      getenv("SQLITE_PATH"),
		CatalogPath:     getenv("CATALOG_PATH"),
		OverrideVersion: models.VersionKIF,
		OutputDir:       getenv("OUTPUT_DIR"),
		UploadDir:       getenv("UPLOAD_DIR"),
		MaxUploadMB:     defaultMaxUploadMB,
		CORSOrigins:     append([]string(nil), defaultOrigins...),
		LogLevel:        getenv("LOG_LEVEL"),
	}

	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v, ok := lookup(getenv, "OVERRIDE_VERSION"); ok {
		cfg.OverrideVersion = v
	}
	if v := getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid MAX_UPLOAD_MB %q: %w", v, err)
		}
		cfg.MaxUploadMB = n
	}
	if extra := getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.StoreDriver == "" {
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = db.DriverPostgres
		} else {
			cfg.StoreDriver = db.DriverSQLite
		}
	}
	if cfg.StoreDriver == db.DriverSQLite && cfg.SQLitePath == "" {
		cfg.SQLitePath = defaultSQLitePath
	}
	return cfg, nil
}

// lookup treats the literal "none" as an explicitly empty value.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	if v == "" {
		return "", false
	}
	if strings.EqualFold(v, "none") {
		return "", true
	}
	return v, true
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case db.DriverPostgres, db.DriverSQLite, db.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MaxUploadBytes is the request body limit for uploads.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// StoreOptions maps the settings onto db.Open.
func (c Config) StoreOptions() db.Options {
	return db.Options{Driver: c.StoreDriver, DatabaseURL: c.DatabaseURL, SQLitePath: c.SQLitePath}
}
