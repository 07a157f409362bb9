package handlers

import (
	"net/http"
	"strconv"
	"time"

	"pricesync/internal/logger"
	"pricesync/internal/models"
	"pricesync/internal/repository"
	"pricesync/internal/syncer"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StoreHandler struct {
	stores          *repository.StoreRepository
	syncs           *syncer.Service
	resolve         syncer.ClientResolver
	defaultInterval int
	logger          *logger.Logger
}

func NewStoreHandler(stores *repository.StoreRepository, syncs *syncer.Service, resolve syncer.ClientResolver, defaultInterval int, log *logger.Logger) *StoreHandler {
	return &StoreHandler{
		stores:          stores,
		syncs:           syncs,
		resolve:         resolve,
		defaultInterval: defaultInterval,
		logger:          log,
	}
}

func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.stores.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stores})
}

func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.stores.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}

type createStoreRequest struct {
	Name         string              `json:"name" binding:"required"`
	Platform     models.PlatformType `json:"platform" binding:"required"`
	SyncInterval int                 `json:"sync_interval"`
	Credentials  models.Credentials  `json:"credentials" binding:"required"`
}

// Create connects a store: it validates the credentials with a single
// authentication probe against the channel before anything is persisted.
func (h *StoreHandler) Create(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := models.Store{
		Name:         req.Name,
		Platform:     req.Platform,
		SyncInterval: req.SyncInterval,
		Enabled:      true,
		Credentials:  req.Credentials,
	}
	if store.SyncInterval <= 0 {
		store.SyncInterval = h.defaultInterval
	}

	client, err := h.resolve(store)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := client.Authenticate(c.Request.Context()); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := h.stores.Create(c.Request.Context(), &store); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": store})
}

type updateStoreRequest struct {
	Name         *string             `json:"name"`
	SyncInterval *int                `json:"sync_interval"`
	Enabled      *bool               `json:"enabled"`
	Credentials  *models.Credentials `json:"credentials"`
}

func (h *StoreHandler) Update(c *gin.Context) {
	store, err := h.stores.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	var req updateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.SyncInterval != nil && *req.SyncInterval > 0 {
		store.SyncInterval = *req.SyncInterval
	}
	if req.Enabled != nil {
		store.Enabled = *req.Enabled
	}
	if req.Credentials != nil {
		// Re-authentication: new credentials must pass the probe.
		store.Credentials = *req.Credentials
		client, err := h.resolve(*store)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := client.Authenticate(c.Request.Context()); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
	}
	store.UpdatedAt = time.Now()

	if err := h.stores.Update(c.Request.Context(), store); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.stores.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete store"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Sync runs one cycle for the store right now, outside its schedule.
func (h *StoreHandler) Sync(c *gin.Context) {
	store, err := h.stores.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	result, err := h.syncs.SyncStore(c.Request.Context(), *store)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "data": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}
	return (page - 1) * limit, limit
}
