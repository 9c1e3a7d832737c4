package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-tracker-backend/internal/model"
	"fleet-tracker-backend/internal/notification"
	"fleet-tracker-backend/internal/store"
)

type createDefinitionRequest struct {
	Kind           string     `json:"kind" binding:"required"`
	IntervalKM     *int       `json:"interval_km"`
	IntervalMonths *int       `json:"interval_months"`
	LastServiceKM  int        `json:"last_service_km"`
	LastServicedAt *time.Time `json:"last_serviced_at"`
}

// CreateDefinition handles POST /api/vehicles/{id}/maintenance.
func (h *Handler) CreateDefinition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	def := model.MaintenanceDefinition{
		VehicleID:      id,
		Kind:           req.Kind,
		IntervalKM:     req.IntervalKM,
		IntervalMonths: req.IntervalMonths,
		LastServiceKM:  req.LastServiceKM,
	}
	if req.LastServicedAt != nil {
		def.LastServicedAt = req.LastServicedAt.UTC()
	}
	if err := h.store.CreateDefinition(c.Request.Context(), &def); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

// ListDefinitions handles GET /api/vehicles/{id}/maintenance.
func (h *Handler) ListDefinitions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	defs, err := h.store.ListDefinitions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, defs)
}

type updateDefinitionRequest struct {
	Kind                *string `json:"kind"`
	IntervalKM          *int    `json:"interval_km"`
	IntervalMonths      *int    `json:"interval_months"`
	ClearIntervalKM     bool    `json:"clear_interval_km"`
	ClearIntervalMonths bool    `json:"clear_interval_months"`
}

// UpdateDefinition handles PATCH /api/maintenance/{id}.
func (h *Handler) UpdateDefinition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	def, err := h.store.UpdateDefinition(c.Request.Context(), id, store.DefinitionUpdate{
		Kind:                req.Kind,
		IntervalKM:          req.IntervalKM,
		IntervalMonths:      req.IntervalMonths,
		ClearIntervalKM:     req.ClearIntervalKM,
		ClearIntervalMonths: req.ClearIntervalMonths,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// DeleteDefinition handles DELETE /api/maintenance/{id}.
func (h *Handler) DeleteDefinition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteDefinition(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EvaluateVehicle handles POST /api/vehicles/{id}/evaluate: runs the
// due-evaluation and queues one push alert per newly-due definition.
func (h *Handler) EvaluateVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	v, err := h.store.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	newlyDue, err := h.store.EvaluateVehicle(c.Request.Context(), id, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	if h.alerts != nil {
		for _, def := range newlyDue {
			h.alerts.Dispatch(notification.DueAlert{
				DefinitionID: def.ID,
				VehicleID:    v.ID,
				Plate:        v.Plate,
				Kind:         def.Kind,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"newly_due": newlyDue})
}

type performServiceRequest struct {
	ServiceDate *time.Time `json:"service_date" binding:"required"`
}

// PerformService handles POST /api/maintenance/{id}/service.
func (h *Handler) PerformService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req performServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	def, err := h.store.PerformService(c.Request.Context(), id, *req.ServiceDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}
