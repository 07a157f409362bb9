package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pricesync/internal/api/handlers"
	"pricesync/internal/api/middleware"
	"pricesync/internal/config"
	"pricesync/internal/database"
	"pricesync/internal/logger"
	"pricesync/internal/repository"
	"pricesync/internal/syncer"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logger.Logger, db *database.Database, syncs *syncer.Service) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Initialize handlers
	storeRepo := repository.NewStoreRepository(db.DB)
	statusRepo := repository.NewStatusRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)

	storeHandler := handlers.NewStoreHandler(storeRepo, syncs, syncer.RegistryResolver(log), cfg.DefaultSyncInterval, log)
	statusHandler := handlers.NewStatusHandler(statusRepo)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		stores := v1.Group("/stores")
		{
			stores.GET("", storeHandler.List)
			stores.GET("/:id", storeHandler.Get)
			stores.POST("", storeHandler.Create)
			stores.PUT("/:id", storeHandler.Update)
			stores.DELETE("/:id", storeHandler.Delete)
			stores.POST("/:id/sync", storeHandler.Sync)
			stores.GET("/:id/statuses", statusHandler.ListStatuses)
			stores.GET("/:id/results", statusHandler.ListResults)
			stores.GET("/:id/audit", auditHandler.List)
		}
	}

	return &Server{
		config: cfg,
		logger: log,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}
