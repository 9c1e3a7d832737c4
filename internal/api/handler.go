package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"fleet-tracker-backend/config"
	"fleet-tracker-backend/internal/notification"
	"fleet-tracker-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	auth    config.AuthConfig
	baseURL string
	alerts  *notification.WorkerPool
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, alerts *notification.WorkerPool) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		auth:    cfg.Auth,
		baseURL: cfg.Server.PublicBaseURL,
		alerts:  alerts,
	}
}

// invalidLinkBody is the one response the public submission endpoints
// give for any bad token, so callers cannot distinguish an unknown
// token from a consumed or malformed one.
var invalidLinkBody = gin.H{"error": "invalid or expired link"}

// respondError translates store errors into HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidToken):
		c.JSON(http.StatusNotFound, invalidLinkBody)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicatePlate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathID parses the named int64 path parameter or aborts with 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
