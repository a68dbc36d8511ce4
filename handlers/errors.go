package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/LovationAdmin/fintrack-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError converts a workflow error into a status and a short message.
// Store failures are logged here and never echoed to the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": detail(err, services.ErrValidation)})
	case errors.Is(err, services.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, services.ErrEmailMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrEmailMismatch.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found or expired"})
	case errors.Is(err, services.ErrEmailDispatch):
		logger.Warn("Email dispatch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send invitation email"})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// detail strips the sentinel prefix from a wrapped error.
func detail(err, kind error) string {
	msg := strings.TrimPrefix(err.Error(), kind.Error()+": ")
	if msg == "" {
		return kind.Error()
	}
	return msg
}
