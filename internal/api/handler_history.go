package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"machinery-maintenance-backend/internal/model"
)

type historyFile struct {
	FileKey  string `json:"file_key" binding:"required"`
	FileURL  string `json:"file_url" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

type addHistoryRequest struct {
	MaintenanceDate time.Time     `json:"maintenance_date" binding:"required"`
	MaintenanceType string        `json:"maintenance_type" binding:"required"`
	Notes           string        `json:"notes"`
	TechnicianName  string        `json:"technician_name"`
	Files           []historyFile `json:"files"`
}

// AddHistory handles POST /api/machines/:id/history. Creating a record
// attaches the supplied file metadata and recomputes the machine's schedule
// from the event date.
func (h *Handler) AddHistory(c *gin.Context) {
	machineID, ok := pathID(c)
	if !ok {
		return
	}
	var req addHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := model.MaintenanceHistory{
		MachineID:       machineID,
		MaintenanceDate: req.MaintenanceDate,
		MaintenanceType: req.MaintenanceType,
		Notes:           req.Notes,
		TechnicianName:  req.TechnicianName,
	}
	files := make([]model.MaintenanceFile, len(req.Files))
	for i, f := range req.Files {
		files[i] = model.MaintenanceFile{
			FileKey:  f.FileKey,
			FileURL:  f.FileURL,
			FileName: f.FileName,
			MimeType: f.MimeType,
			FileSize: f.FileSize,
		}
	}

	if err := h.store.CreateHistory(c.Request.Context(), userID(c), &record, files); err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"history_id": record.ID})
}

// ListHistory handles GET /api/machines/:id/history.
func (h *Handler) ListHistory(c *gin.Context) {
	machineID, ok := pathID(c)
	if !ok {
		return
	}
	records, err := h.store.ListHistory(c.Request.Context(), userID(c), machineID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	if records == nil {
		records = []model.MaintenanceHistory{}
	}
	c.JSON(http.StatusOK, records)
}

// DeleteHistory handles DELETE /api/history/:id. Attached files go with it.
func (h *Handler) DeleteHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteHistory(c.Request.Context(), userID(c), id); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
