package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook-backend/internal/models"
	"sportsbook-backend/internal/services"
)

type EventHandler struct {
	events *services.EventService
	log    *zap.Logger
}

func NewEventHandler(events *services.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{events: events, log: log}
}

func (h *EventHandler) List(c *gin.Context) {
	page, limit := models.ParsePage(c.Query("page"), c.Query("limit"))

	filters := services.EventFilters{
		Sport:  models.Sport(c.Query("sport")),
		Status: models.EventStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if filters.Sport != "" && !models.ValidSport(filters.Sport) {
		respondError(c, http.StatusBadRequest, "invalid sport filter")
		return
	}
	if filters.Status != "" && !models.ValidEventStatus(filters.Status) {
		respondError(c, http.StatusBadRequest, "invalid status filter")
		return
	}

	events, pagination, err := h.events.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		respondServiceError(c, h.log, "list events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       events,
		"pagination": pagination,
	})
}

func (h *EventHandler) GetByID(c *gin.Context) {
	event, err := h.events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, "get event", err)
		return
	}

	respondData(c, http.StatusOK, event)
}
