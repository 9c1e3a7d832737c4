package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-tracker-backend/internal/model"
	"fleet-tracker-backend/internal/store"
)

type createVehicleRequest struct {
	Plate     string              `json:"plate" binding:"required"`
	Model     string              `json:"model"`
	InitialKM int                 `json:"initial_km"`
	Status    model.VehicleStatus `json:"status"`
}

// CreateVehicle handles POST /api/vehicles.
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v := model.Vehicle{
		Plate:     req.Plate,
		Model:     req.Model,
		CurrentKM: req.InitialKM,
		Status:    req.Status,
	}
	if err := h.store.CreateVehicle(c.Request.Context(), &v); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GetVehicle handles GET /api/vehicles/{id}.
func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.store.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type updateVehicleRequest struct {
	Plate     *string              `json:"plate"`
	Model     *string              `json:"model"`
	Status    *model.VehicleStatus `json:"status"`
	CurrentKM *int                 `json:"current_km"`
}

// UpdateVehicle handles PATCH /api/vehicles/{id}.
func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	v, err := h.store.UpdateVehicle(c.Request.Context(), id, store.VehicleUpdate{
		Plate:     req.Plate,
		Model:     req.Model,
		Status:    req.Status,
		CurrentKM: req.CurrentKM,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ListVehicles handles GET /api/vehicles with an optional ?status= filter.
func (h *Handler) ListVehicles(c *gin.Context) {
	status := model.VehicleStatus(c.Query("status"))
	vehicles, err := h.store.ListVehicles(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// DeleteVehicle handles DELETE /api/vehicles/{id}.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteVehicle(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDashboard handles GET /api/dashboard.
func (h *Handler) GetDashboard(c *gin.Context) {
	rows, err := h.store.Dashboard(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
