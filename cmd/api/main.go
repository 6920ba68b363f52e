package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizza-builder-backend/internal/config"
	"pizza-builder-backend/internal/database"
	"pizza-builder-backend/internal/handlers"
	"pizza-builder-backend/internal/middleware"
	"pizza-builder-backend/internal/notify"
	"pizza-builder-backend/internal/orders"
	"pizza-builder-backend/internal/pricing"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"
)

func main() {
	// 1. Load config (.env first, then the environment)
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// 2. Connect Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
	defer closeDB()

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		closeDB()
		os.Exit(1)
	}

	// 3. Wire components
	st := store.New(db)
	deps := handlers.Deps{
		Store:        st,
		Gate:         validation.NewGate(validation.Options{MaxToppingAmount: cfg.MaxToppingAmount}),
		Auth:         middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL, st, cfg.AdminAPIKey),
		Pricer:       pricing.NewService(st),
		Composer:     orders.NewComposer(st, st, cfg.OrderNumberAttempts),
		Mailer:       notify.LogMailer{},
		UploadDir:    cfg.UploadDir,
		ContactInbox: cfg.ContactInbox,
		RateLimitMax: cfg.RateLimitMax,
		RequestLog:   true,
	}
	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set; admin routes accept bearer tokens only")
	}

	app := handlers.NewApp(deps)

	// 4. Start server, stop on SIGINT/SIGTERM or a listen failure
	listenErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		slog.Error("Server failed to listen", "error", err)
		closeDB()
		os.Exit(1)
	case <-stop:
	}

	slog.Info("Shutting down server gracefully...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Server exited gracefully.")
}
