package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-tracker-backend/internal/model"
	"fleet-tracker-backend/internal/store"
)

// submitRetries bounds the retry loop on an optimistic-lock conflict.
const submitRetries = 3

type issueRequestBody struct {
	ExpectedKM *int `json:"expected_km" binding:"required"`
}

type issueRequestResponse struct {
	Request   *model.MileageRequest `json:"request"`
	Token     string                `json:"token"`
	SubmitURL string                `json:"submit_url"`
}

// IssueMileageRequest handles POST /api/vehicles/{id}/mileage-requests.
// The plaintext token appears in this response and nowhere else.
func (h *Handler) IssueMileageRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body issueRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	req, plaintext, err := h.store.IssueMileageRequest(c.Request.Context(), id, *body.ExpectedKM)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issueRequestResponse{
		Request:   req,
		Token:     plaintext,
		SubmitURL: fmt.Sprintf("%s/submit/%s", h.baseURL, plaintext),
	})
}

// GetSubmissionForm handles GET /api/submissions/{token}: the data the
// driver-facing form needs, without consuming the token.
func (h *Handler) GetSubmissionForm(c *gin.Context) {
	pending, err := h.store.LookupRequest(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

type submitMileageBody struct {
	ReportedKM *int   `json:"reported_km" binding:"required"`
	DriverName string `json:"driver_name" binding:"required"`
}

// SubmitMileage handles POST /api/submissions/{token}. A version
// conflict on the vehicle row means another submission won the race; we
// retry a bounded number of times before giving up with 409.
func (h *Handler) SubmitMileage(c *gin.Context) {
	var body submitMileageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var entry *model.MileageEntry
	var err error
	for attempt := 0; attempt < submitRetries; attempt++ {
		entry, err = h.store.SubmitMileage(c.Request.Context(), c.Param("token"), *body.ReportedKM, body.DriverName)
		if !errors.Is(err, store.ErrConflict) {
			break
		}
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListEntries handles GET /api/vehicles/{id}/entries, newest first.
func (h *Handler) ListEntries(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.store.ListMileageEntries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
