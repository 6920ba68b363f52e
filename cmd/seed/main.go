package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pizza-builder-backend/internal/config"
	"pizza-builder-backend/internal/database"
	"pizza-builder-backend/internal/seed"
	"pizza-builder-backend/internal/store"
)

func main() {
	builders := flag.Int("builders", 12, "number of pizzas to generate")
	orderCount := flag.Int("orders", 40, "number of orders to generate")
	messages := flag.Int("messages", 10, "number of contact messages to generate")
	seedValue := flag.Uint64("seed", 0, "faker seed; 0 picks a random one")
	adminEmail := flag.String("admin-email", "", "create this admin account if it does not exist")
	adminPassword := flag.String("admin-password", "", "password for -admin-email")
	adminOnly := flag.Bool("admin-only", false, "only bootstrap the admin account, keep existing data")
	flag.Parse()

	counts := seed.Counts{Builders: *builders, Orders: *orderCount, Messages: *messages}
	if err := run(counts, *seedValue, *adminEmail, *adminPassword, *adminOnly); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the deferred close always runs.
func run(counts seed.Counts, seedValue uint64, adminEmail, adminPassword string, adminOnly bool) error {
	if adminEmail != "" && len(adminPassword) < 6 {
		return errors.New("-admin-password must be at least 6 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if cerr := database.Close(db); cerr != nil {
			slog.Error("Failed to close database", "error", cerr)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx := context.Background()
	st := store.New(db)

	if adminEmail != "" {
		if _, err := seed.EnsureAdmin(ctx, st, adminEmail, adminPassword); err != nil {
			return fmt.Errorf("admin bootstrap: %w", err)
		}
	}
	if adminOnly {
		return nil
	}

	seeder := &seed.Seeder{Store: st, Gen: seed.NewFakeGenerator(seedValue)}
	_, err = seeder.Run(ctx, counts)
	return err
}
