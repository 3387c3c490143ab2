package main

import (
	"os"

	"github.com/joho/godotenv"

	"finbot/internal/config"
	applog "finbot/internal/log"
	"finbot/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if cfg.SQLiteDBPath == "" {
		logger.Error("SQLite database path cannot be empty")
		os.Exit(1)
	}

	logger.Info("Running migrations", "path", cfg.SQLiteDBPath)
	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Migration failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Migrations applied")
}
