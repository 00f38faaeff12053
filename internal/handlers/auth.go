package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook-backend/internal/models"
	"sportsbook-backend/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.log, "register user", err)
		return
	}

	respondMessage(c, http.StatusCreated, authResponse{User: user, Token: token}, "User registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.log, "login", err)
		return
	}

	respondMessage(c, http.StatusOK, authResponse{User: user, Token: token}, "Login successful")
}

// Logout is stateless: tokens are not revocable, the client discards
// its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), parts[1])
	if err != nil {
		respondServiceError(c, h.log, "get current user", err)
		return
	}

	respondData(c, http.StatusOK, user)
}
