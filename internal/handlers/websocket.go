package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sportsbook-backend/internal/metrics"
	"sportsbook-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ClientMessage is what subscribers send over the socket: room joins
// and pings.
type ClientMessage struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	EventID string `json:"eventId,omitempty"`
}

type wsClient struct {
	conn   *websocket.Conn
	userID string
	events map[string]struct{}
}

type joinRequest struct {
	client  *wsClient
	userID  string
	eventID string
}

// Hub is the broadcast registry: one room per user (balance updates)
// and one per event (odds/status updates). All map mutation and all
// socket writes happen in the run loop, which also preserves per-event
// delivery order.
type Hub struct {
	log     *zap.Logger
	metrics *metrics.Metrics

	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	join       chan joinRequest
	broadcast  chan models.LiveUpdate
}

func NewHub(log *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		log:        log,
		metrics:    m,
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		join:       make(chan joinRequest),
		broadcast:  make(chan models.LiveUpdate, 256),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.conn.Close()
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			if h.metrics != nil {
				h.metrics.WSClients.Inc()
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
				if h.metrics != nil {
					h.metrics.WSClients.Dec()
				}
			}

		case req := <-h.join:
			if _, ok := h.clients[req.client]; !ok {
				continue
			}
			if req.userID != "" {
				req.client.userID = req.userID
			}
			if req.eventID != "" {
				req.client.events[req.eventID] = struct{}{}
			}

		case upd := <-h.broadcast:
			h.deliver(upd)
		}
	}
}

// Broadcast queues an update for delivery, dropping it if the buffer is
// full. Delivery is best-effort by design.
func (h *Hub) Broadcast(upd models.LiveUpdate) {
	select {
	case h.broadcast <- upd:
	default:
		h.log.Warn("broadcast buffer full, dropping update", zap.String("type", upd.Type))
	}
}

func (h *Hub) deliver(upd models.LiveUpdate) {
	if h.metrics != nil {
		h.metrics.WSBroadcasts.WithLabelValues(upd.Type).Inc()
	}

	for client := range h.clients {
		var matches bool
		switch upd.Type {
		case models.UpdateTypeBalance:
			matches = client.userID != "" && client.userID == upd.UserID
		case models.UpdateTypeOdds, models.UpdateTypeEventStatus:
			_, matches = client.events[upd.EventID]
		}
		if !matches {
			continue
		}
		if err := client.conn.WriteJSON(upd); err != nil {
			// A dead subscriber simply misses the update.
			delete(h.clients, client)
			client.conn.Close()
			if h.metrics != nil {
				h.metrics.WSClients.Dec()
			}
		}
	}
}

type WebSocketHandler struct {
	hub *Hub
	log *zap.Logger
}

func NewWebSocketHandler(hub *Hub, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: log}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn:   conn,
		events: make(map[string]struct{}),
	}
	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
	}()

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("websocket read error", zap.Error(err))
			}
			break
		}

		switch msg.Type {
		case "join-user":
			if msg.UserID != "" {
				h.hub.join <- joinRequest{client: client, userID: msg.UserID}
			}
		case "join-event":
			if msg.EventID != "" {
				h.hub.join <- joinRequest{client: client, eventID: msg.EventID}
			}
		case "ping":
			_ = conn.WriteJSON(gin.H{"type": "pong", "timestamp": time.Now().Unix()})
		}
	}
}

// StartSubscriber reads LiveUpdate JSON payloads from the broadcast
// feed and forwards them into the hub until the context is cancelled.
func StartSubscriber(ctx context.Context, ch <-chan string, hub *Hub, log *zap.Logger) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case payload, ok := <-ch:
				if !ok {
					return
				}
				var upd models.LiveUpdate
				if err := json.Unmarshal([]byte(payload), &upd); err != nil {
					log.Warn("unmarshal live update", zap.Error(err))
					continue
				}
				hub.Broadcast(upd)
			}
		}
	}()
}
