package handlers

import (
	"net/http"

	"pricesync/internal/repository"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	statuses *repository.StatusRepository
}

func NewStatusHandler(statuses *repository.StatusRepository) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

// ListStatuses returns the per-product sync outcomes for one store.
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	offset, limit := pagination(c)

	statuses, total, err := h.statuses.ListByStore(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product statuses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": statuses,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}

// ListResults returns the sync run history for one store, newest first.
func (h *StatusHandler) ListResults(c *gin.Context) {
	offset, limit := pagination(c)

	results, total, err := h.statuses.ListResultsByStore(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": results,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}
