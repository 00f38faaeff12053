package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook-backend/internal/middleware"
	"sportsbook-backend/internal/models"
	"sportsbook-backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	profile, err := h.users.Profile(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.log, "get profile", err)
		return
	}

	respondData(c, http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondServiceError(c, h.log, "update profile", err)
		return
	}

	respondMessage(c, http.StatusOK, updated, "Profile updated successfully")
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	balance, err := h.users.Balance(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.log, "get balance", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"balance":  balance,
		"currency": "USD",
	})
}
