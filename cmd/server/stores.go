package main

import (
	"fmt"

	"github.com/mmynk/pagetally/internal/config"
	"github.com/mmynk/pagetally/internal/drafts"
	"github.com/mmynk/pagetally/internal/storage"
	"github.com/mmynk/pagetally/internal/storage/postgres"
	"github.com/mmynk/pagetally/internal/storage/sqlite"
)

// openStore opens the batch store selected by cfg.Driver.
func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "postgres":
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return store, nil
	}
}

// openDrafts opens Redis when configured and falls back to process memory.
func openDrafts(cfg config.DraftConfig) (drafts.Store, error) {
	if cfg.RedisURL == "" {
		return drafts.NewMemoryStore(), nil
	}
	store, err := drafts.NewRedisStore(cfg.RedisURL, cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return store, nil
}
