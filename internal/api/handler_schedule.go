package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type putScheduleRequest struct {
	IntervalDays        int        `json:"interval_days" binding:"required,gt=0"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date"`
}

// PutSchedule handles PUT /api/machines/:id/schedule. This is an upsert
// keyed by machine; each machine has at most one schedule.
func (h *Handler) PutSchedule(c *gin.Context) {
	machineID, ok := pathID(c)
	if !ok {
		return
	}
	var req putScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.UpsertSchedule(c.Request.Context(), userID(c), machineID,
		req.IntervalDays, req.LastMaintenanceDate, req.NextMaintenanceDate)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSchedule handles GET /api/machines/:id/schedule.
func (h *Handler) GetSchedule(c *gin.Context) {
	machineID, ok := pathID(c)
	if !ok {
		return
	}
	sched, err := h.store.GetSchedule(c.Request.Context(), userID(c), machineID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sched)
}
