// Command api is the Listing Notify service: engagement trigger endpoints,
// the listing lifecycle listener, and the daily reminder scan.
//
// Usage:
//
//	listing-notify-api
//	API_PORT=8080 listing-notify-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/oddmarket/listing-notify/internal/api"
	"github.com/oddmarket/listing-notify/internal/config"
	"github.com/oddmarket/listing-notify/internal/db"
	"github.com/oddmarket/listing-notify/internal/listener"
	"github.com/oddmarket/listing-notify/internal/listing"
	"github.com/oddmarket/listing-notify/internal/mailer"
	"github.com/oddmarket/listing-notify/internal/maintenance"
	"github.com/oddmarket/listing-notify/internal/notify"
	"github.com/oddmarket/listing-notify/internal/scan"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Mail sender (nil = delivery disabled, sends are logged)
	sender, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Timeout:  cfg.MailTimeout,
	}, logger)
	if err != nil {
		logger.Error("Failed to configure mail sender", "error", err)
		os.Exit(1)
	}
	if sender == nil {
		logger.Info("Mail delivery disabled (no SMTP_HOST); sends will be logged and committed")
	}

	// Assemble the notification engine
	store := listing.NewStore(pool.Pool)
	stateStore := notify.NewPGStateStore(pool.Pool)
	prefs := notify.NewPrefs(notify.NewPGPrefStore(pool.Pool), logger)
	links := notify.Links{Base: cfg.SiteBaseURL}

	orch := notify.NewOrchestrator(notify.Deps{
		Listings:    store,
		Owners:      store,
		Counters:    store,
		State:       stateStore,
		Prefs:       prefs,
		Sender:      sender,
		Links:       links,
		ListingType: cfg.ListingType,
		Logger:      logger,
	})

	// Start the lifecycle listener for publish notices
	go listener.Start(ctx, cfg.DatabaseURL, orch, logger)

	// Schedule the daily reminder scan
	scanner := scan.New(pool.Pool, orch, links, cfg.ListingType, cfg.ScanBatchSize, logger)
	if err := scan.StartSchedule(ctx, cfg.ReminderCron, scanner, logger); err != nil {
		logger.Error("Failed to schedule reminder scan", "error", err)
		os.Exit(1)
	}

	// Start maintenance tickers
	go maintenance.Start(ctx, stateStore, maintenance.Config{
		StatePurgeInterval: cfg.StatePurgeInterval,
	}, logger)

	// Create router
	router := api.NewRouter(pool, store, orch, prefs, scanner, sender, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Listing Notify API",
			"addr", addr,
			"environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
