package main

import (
	"fmt"
	"log/slog"
	"os"

	"pizza-builder-backend/internal/config"
	"pizza-builder-backend/internal/database"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Migration complete")
}

// run returns instead of exiting so the deferred close always runs.
func run() error {
	// 1. Load env
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Connect Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if cerr := database.Close(db); cerr != nil {
			slog.Error("Failed to close database", "error", cerr)
		}
	}()

	// 3. Run migrations
	return database.Migrate(db)
}
