package main

import (
	"fmt"
	"os"

	"moneybook/internal/config"
	"moneybook/internal/database"
	"moneybook/internal/export"
	"moneybook/internal/logger"
	"moneybook/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Export error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager, err := database.NewManager(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer manager.Close()

	if err := manager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Opening the store for use also seeds the defaults, as the app does on
	// first launch. SEED=false keeps a backup of an untouched file honest.
	if cfg.Seed {
		if err := services.NewSeedService(manager.DB()).EnsureSeed(); err != nil {
			return fmt.Errorf("failed to seed defaults: %w", err)
		}
	}

	doc, err := export.BuildDocument(manager.DB())
	if err != nil {
		return fmt.Errorf("failed to build export document: %w", err)
	}

	return doc.WriteJSON(os.Stdout)
}
