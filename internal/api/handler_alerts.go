package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"machinery-maintenance-backend/internal/model"
)

// ListAlerts handles GET /api/alerts.
func (h *Handler) ListAlerts(c *gin.Context) {
	alerts, err := h.store.ListAlerts(c.Request.Context(), userID(c))
	if err != nil {
		abortStoreError(c, err)
		return
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

// MarkAlertRead handles POST /api/alerts/:id/read.
func (h *Handler) MarkAlertRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.MarkAlertRead(c.Request.Context(), userID(c), id); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckOverdue handles POST /api/alerts/check-overdue. It classifies all of
// the user's machines and creates deduplicated overdue alerts.
func (h *Handler) CheckOverdue(c *gin.Context) {
	created, err := h.alerts.CheckOverdue(c.Request.Context(), userID(c), time.Now())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts_created": created})
}

// DashboardStats handles GET /api/dashboard/stats.
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.alerts.DashboardStats(c.Request.Context(), userID(c), time.Now())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
