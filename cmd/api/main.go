package main

import (
	"log"
	"time"

	"pricesync/internal/api"
	"pricesync/internal/audit"
	"pricesync/internal/config"
	"pricesync/internal/database"
	"pricesync/internal/logger"
	"pricesync/internal/repository"
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

	// Wire the sync service for manual sync triggers
	source := streetpricer.NewClient(cfg.StreetPricerURL, cfg.StreetPricerAPIKey,
		time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, logger)
	publisher := audit.NewPublisher(cfg.KafkaBrokers)
	defer publisher.Close()
	trail := audit.NewTrail(repository.NewAuditRepository(db.DB), publisher, logger)
	syncs := syncer.New(source, repository.NewStatusRepository(db.DB), trail,
		syncer.RegistryResolver(logger), logger)

	// Initialize API server
	server := api.New(cfg, logger, db, syncs)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
