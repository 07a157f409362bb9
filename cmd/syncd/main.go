package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricesync/internal/audit"
	"pricesync/internal/config"
	"pricesync/internal/database"
	"pricesync/internal/logger"
	"pricesync/internal/repository"
	"pricesync/internal/scheduler"
	"pricesync/internal/streetpricer"
	"pricesync/internal/syncer"

	// Register platform clients.
	_ "pricesync/internal/platforms/shopify"
	_ "pricesync/internal/platforms/woocommerce"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Wire the sync service
	source := streetpricer.NewClient(cfg.StreetPricerURL, cfg.StreetPricerAPIKey,
		time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, logger)
	publisher := audit.NewPublisher(cfg.KafkaBrokers)
	defer publisher.Close()
	trail := audit.NewTrail(repository.NewAuditRepository(db.DB), publisher, logger)
	syncs := syncer.New(source, repository.NewStatusRepository(db.DB), trail,
		syncer.RegistryResolver(logger), logger)

	// Start the per-store scheduler
	sched := scheduler.New(repository.NewStoreRepository(db.DB), syncs, logger)
	if err := sched.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start scheduler: %v", err)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down sync daemon...")
	sched.Stop()
}
