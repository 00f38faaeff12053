package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook-backend/internal/models"
	"sportsbook-backend/internal/services"
)

type AdminHandler struct {
	events      *services.EventService
	stats       *services.StatsService
	broadcaster services.Broadcaster
	log         *zap.Logger
}

func NewAdminHandler(events *services.EventService, stats *services.StatsService, b services.Broadcaster, log *zap.Logger) *AdminHandler {
	return &AdminHandler{events: events, stats: stats, broadcaster: b, log: log}
}

func (h *AdminHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.events.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.log, "create event", err)
		return
	}

	respondMessage(c, http.StatusCreated, event, "Event created successfully")
}

func (h *AdminHandler) UpdateEvent(c *gin.Context) {
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.events.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, h.log, "update event", err)
		return
	}

	// Push the change to viewers of this event. Existing bets keep the
	// odds captured at placement.
	if h.broadcaster != nil {
		if req.Odds != nil {
			h.broadcaster.BroadcastOddsUpdate(c.Request.Context(), event.ID, event.Odds)
		}
		if req.Status != nil || req.Result != nil {
			h.broadcaster.BroadcastEventStatus(c.Request.Context(), event.ID, event.Status, event.Result)
		}
	}

	respondMessage(c, http.StatusOK, event, "Event updated successfully")
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.PlatformStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "platform stats", err)
		return
	}

	respondData(c, http.StatusOK, stats)
}
