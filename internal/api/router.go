package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"fleet-tracker-backend/config"
	"fleet-tracker-backend/internal/mw"
	"fleet-tracker-backend/internal/notification"
	"fleet-tracker-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, alerts *notification.WorkerPool) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cfg, webpushOptions, alerts)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", handler.Login)

		// Public driver-facing endpoints; the token is the capability.
		api.GET("/submissions/:token", handler.GetSubmissionForm)
		api.POST("/submissions/:token", handler.SubmitMileage)

		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	admin := api.Group("", mw.RequireOperator(cfg.Auth.JWTSecret))
	{
		admin.GET("/dashboard", caching, handler.GetDashboard)

		admin.GET("/vehicles", handler.ListVehicles)
		admin.POST("/vehicles", handler.CreateVehicle)
		admin.GET("/vehicles/:id", handler.GetVehicle)
		admin.PATCH("/vehicles/:id", handler.UpdateVehicle)
		admin.DELETE("/vehicles/:id", handler.DeleteVehicle)
		admin.GET("/vehicles/:id/entries", handler.ListEntries)
		admin.POST("/vehicles/:id/mileage-requests", handler.IssueMileageRequest)

		admin.GET("/vehicles/:id/maintenance", handler.ListDefinitions)
		admin.POST("/vehicles/:id/maintenance", handler.CreateDefinition)
		admin.POST("/vehicles/:id/evaluate", handler.EvaluateVehicle)
		admin.PATCH("/maintenance/:id", handler.UpdateDefinition)
		admin.DELETE("/maintenance/:id", handler.DeleteDefinition)
		admin.POST("/maintenance/:id/service", handler.PerformService)

		admin.PUT("/subscriptions", handler.PutSubscription)
		admin.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	return r
}
