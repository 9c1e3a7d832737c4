package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-tracker-backend/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login for the configured operator account.
// Failures are answered uniformly so usernames cannot be probed.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Username != h.auth.OperatorUsername || !auth.CheckPassword(req.Password, h.auth.OperatorPasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	tokenString, err := auth.SignSession(req.Username, h.auth.JWTSecret, h.auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      tokenString,
		"expires_in": int64(h.auth.TokenTTL.Seconds()),
		"token_type": "Bearer",
	})
}
