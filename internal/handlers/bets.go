package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook-backend/internal/middleware"
	"sportsbook-backend/internal/models"
	"sportsbook-backend/internal/services"
)

type BetHandler struct {
	betting *services.BettingService
	log     *zap.Logger
}

func NewBetHandler(betting *services.BettingService, log *zap.Logger) *BetHandler {
	return &BetHandler{betting: betting, log: log}
}

func (h *BetHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := h.betting.PlaceBet(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondServiceError(c, h.log, "place bet", err)
		return
	}

	respondMessage(c, http.StatusCreated, bet, "Bet placed successfully")
}

func (h *BetHandler) ListMine(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	page, limit := models.ParsePage(c.Query("page"), c.Query("limit"))

	status := models.BetStatus(c.Query("status"))
	switch status {
	case "", models.BetStatusPending, models.BetStatusWon, models.BetStatusLost, models.BetStatusCancelled:
	default:
		respondError(c, http.StatusBadRequest, "invalid status filter")
		return
	}

	bets, pagination, err := h.betting.ListUserBets(c.Request.Context(), user.ID, status, page, limit)
	if err != nil {
		respondServiceError(c, h.log, "list bets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       bets,
		"pagination": pagination,
	})
}

func (h *BetHandler) GetByID(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	bet, err := h.betting.GetUserBet(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, "get bet", err)
		return
	}

	respondData(c, http.StatusOK, bet)
}
