package handlers

import (
	"net/http"

	"pricesync/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	audit *repository.AuditRepository
}

func NewAuditHandler(audit *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns the audit trail for one store, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	entries, total, err := h.audit.ListByStore(c.Request.Context(), c.Param("id"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": entries,
		"pagination": gin.H{
			"offset": offset,
			"limit":  limit,
			"total":  total,
		},
	})
}
