package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"machinery-maintenance-backend/internal/model"
	"machinery-maintenance-backend/internal/store"
)

type createMachineRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	IntervalDays int    `json:"interval_days" binding:"omitempty,gt=0"`
}

// CreateMachine handles POST /api/machines. An interval, when supplied,
// bootstraps the machine's schedule from the current time.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := model.Machine{
		Code:        req.Code,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	}
	if err := h.store.CreateMachine(c.Request.Context(), userID(c), &m, req.IntervalDays, time.Now()); err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"machine_id": m.ID})
}

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	machines, err := h.store.ListMachines(c.Request.Context(), userID(c))
	if err != nil {
		abortStoreError(c, err)
		return
	}
	if machines == nil {
		machines = []model.Machine{}
	}
	c.JSON(http.StatusOK, machines)
}

// GetMachine handles GET /api/machines/:id.
func (h *Handler) GetMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.store.GetMachine(c.Request.Context(), userID(c), id)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type updateMachineRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

// UpdateMachine handles PATCH /api/machines/:id.
func (h *Handler) UpdateMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := store.MachineUpdate{
		Code:        req.Code,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	}
	if err := h.store.UpdateMachine(c.Request.Context(), userID(c), id, upd); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteMachine handles DELETE /api/machines/:id. The delete cascades to the
// machine's schedule, history, files and alerts.
func (h *Handler) DeleteMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMachine(c.Request.Context(), userID(c), id); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id path parameter, rejecting non-numeric values.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
