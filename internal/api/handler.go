package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"machinery-maintenance-backend/internal/alerting"
	"machinery-maintenance-backend/internal/mw"
	"machinery-maintenance-backend/internal/storage"
	"machinery-maintenance-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	alerts    *alerting.Service
	blobs     storage.BlobStore
	webpush   *webpush.Options
	maxUpload int64 // bytes
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, alerts *alerting.Service, blobs storage.BlobStore, webpushOptions *webpush.Options, maxUploadBytes int64) *Handler {
	return &Handler{
		store:     s,
		alerts:    alerts,
		blobs:     blobs,
		webpush:   webpushOptions,
		maxUpload: maxUploadBytes,
	}
}

// userID returns the authenticated user's id injected by the auth middleware.
func userID(c *gin.Context) int64 {
	return c.GetInt64(mw.UserIDKey)
}

// abortStoreError maps store errors to API responses: absent rows become 404,
// everything else is a 500 with the underlying message.
func abortStoreError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
