package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"machinery-maintenance-backend/config"
	"machinery-maintenance-backend/internal/alerting"
	"machinery-maintenance-backend/internal/mw"
	"machinery-maintenance-backend/internal/storage"
	"machinery-maintenance-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, alerts *alerting.Service, blobs storage.BlobStore, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	maxUpload := int64(cfg.Storage.MaxUploadSizeMB) << 20
	handler := NewHandler(s, alerts, blobs, webpushOptions, maxUpload)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	api.Use(mw.Auth(cfg.Auth.JWTSecret))
	{
		api.POST("/machines", handler.CreateMachine)
		api.GET("/machines", handler.ListMachines)
		api.GET("/machines/:id", handler.GetMachine)
		api.PATCH("/machines/:id", handler.UpdateMachine)
		api.DELETE("/machines/:id", handler.DeleteMachine)

		api.GET("/machines/:id/schedule", handler.GetSchedule)
		api.PUT("/machines/:id/schedule", handler.PutSchedule)

		api.POST("/machines/:id/history", handler.AddHistory)
		api.GET("/machines/:id/history", handler.ListHistory)
		api.DELETE("/history/:id", handler.DeleteHistory)

		api.GET("/alerts", handler.ListAlerts)
		api.POST("/alerts/:id/read", handler.MarkAlertRead)
		api.POST("/alerts/check-overdue", handler.CheckOverdue)

		api.GET("/dashboard/stats", caching, handler.DashboardStats)

		api.POST("/files/upload", handler.UploadFile)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
