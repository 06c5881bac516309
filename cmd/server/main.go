package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/david/proposal-vault/internal/api"
	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/config"
	"github.com/david/proposal-vault/internal/db"
	"github.com/david/proposal-vault/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load section catalog", zap.Error(err))
	}

	ctx := context.Background()
	opts := cfg.StoreOptions()
	opts.Logger = logger
	store, err := db.Open(ctx, opts)
	if err != nil {
		logger.Fatal("failed to open section store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	srv := api.NewServer(store, api.Options{
		Catalog:         cat,
		Logger:          logger,
		OutputDir:       cfg.OutputDir,
		UploadDir:       cfg.UploadDir,
		OverrideVersion: cfg.OverrideVersion,
		MaxUploadBytes:  cfg.MaxUploadBytes(),
		CORSOrigins:     cfg.CORSOrigins,
	})
	logger.Info("server starting", zap.String("port", cfg.Port), zap.Int("sections", cat.Len()))
	if err := srv.Start(cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
