package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook-backend/internal/services"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{"success": true, "data": data, "message": message})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// respondServiceError maps service-layer sentinel errors onto the HTTP
// surface. Anything unrecognized is logged and reported as a generic
// internal failure without leaking detail.
func respondServiceError(c *gin.Context, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrAlreadyExists):
		respondError(c, http.StatusConflict, "already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, services.ErrUnauthenticated.Error())
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(c, http.StatusBadRequest, services.ErrInsufficientFunds.Error())
	case errors.Is(err, services.ErrEventNotAvailable):
		respondError(c, http.StatusBadRequest, services.ErrEventNotAvailable.Error())
	case errors.Is(err, services.ErrNoOddsForOutcome):
		respondError(c, http.StatusBadRequest, services.ErrNoOddsForOutcome.Error())
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		respondError(c, http.StatusBadRequest, services.ErrNoFieldsToUpdate.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrPlacementFailed):
		log.Error(op, zap.Error(err))
		respondError(c, http.StatusInternalServerError, services.ErrPlacementFailed.Error())
	default:
		log.Error(op, zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
