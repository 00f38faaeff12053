package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sportsbook-backend/internal/handlers"
	"sportsbook-backend/internal/models"
)

func startTestHub(t *testing.T) (*handlers.Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := handlers.NewHub(zap.NewNop(), nil)
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", handlers.NewWebSocketHandler(hub, zap.NewNop()).HandleWebSocket)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dialTestHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// sendAndAwaitPong sends a room join followed by a ping. The pong reply
// proves the join was consumed by the read loop, so a broadcast issued
// afterwards will see the subscription.
func sendAndAwaitPong(t *testing.T, conn *websocket.Conn, join handlers.ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(join))
	require.NoError(t, conn.WriteJSON(handlers.ClientMessage{Type: "ping"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong map[string]any
	require.NoError(t, conn.ReadJSON(&pong))
	require.Equal(t, "pong", pong["type"])
}

func readUpdate(t *testing.T, conn *websocket.Conn) models.LiveUpdate {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var upd models.LiveUpdate
	require.NoError(t, conn.ReadJSON(&upd))
	return upd
}

func TestHubEventRoomBroadcast(t *testing.T) {
	hub, url := startTestHub(t)

	subscriber := dialTestHub(t, url)
	sendAndAwaitPong(t, subscriber, handlers.ClientMessage{Type: "join-event", EventID: "evt-1"})

	bystander := dialTestHub(t, url)
	sendAndAwaitPong(t, bystander, handlers.ClientMessage{Type: "join-event", EventID: "evt-other"})

	draw := 3.2
	hub.Broadcast(models.NewOddsUpdate("evt-1", models.EventOdds{Home: 1.9, Away: 2.1, Draw: &draw}))

	upd := readUpdate(t, subscriber)
	assert.Equal(t, models.UpdateTypeOdds, upd.Type)
	assert.Equal(t, "evt-1", upd.EventID)
	require.NotNil(t, upd.Odds)
	assert.Equal(t, 1.9, upd.Odds.Home)

	// The other room must not see it.
	bystander.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := bystander.ReadMessage()
	assert.Error(t, err)
}

func TestHubBalanceRoomBroadcast(t *testing.T) {
	hub, url := startTestHub(t)

	conn := dialTestHub(t, url)
	sendAndAwaitPong(t, conn, handlers.ClientMessage{Type: "join-user", UserID: "user-1"})

	hub.Broadcast(models.NewBalanceUpdate("user-1", 420.5))

	upd := readUpdate(t, conn)
	assert.Equal(t, models.UpdateTypeBalance, upd.Type)
	assert.Equal(t, "user-1", upd.UserID)
	require.NotNil(t, upd.NewBalance)
	assert.Equal(t, 420.5, *upd.NewBalance)
}

func TestHubEventStatusBroadcast(t *testing.T) {
	hub, url := startTestHub(t)

	conn := dialTestHub(t, url)
	sendAndAwaitPong(t, conn, handlers.ClientMessage{Type: "join-event", EventID: "evt-2"})

	result := &models.EventResult{HomeScore: 3, AwayScore: 1, Winner: "home", CompletedAt: time.Now().UTC()}
	hub.Broadcast(models.NewEventStatusUpdate("evt-2", models.EventStatusCompleted, result))

	upd := readUpdate(t, conn)
	assert.Equal(t, models.UpdateTypeEventStatus, upd.Type)
	assert.Equal(t, models.EventStatusCompleted, upd.Status)
	require.NotNil(t, upd.Result)
	assert.Equal(t, "home", upd.Result.Winner)
}

func TestSubscriberFeedsHub(t *testing.T) {
	hub, url := startTestHub(t)

	conn := dialTestHub(t, url)
	sendAndAwaitPong(t, conn, handlers.ClientMessage{Type: "join-event", EventID: "evt-3"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := make(chan string, 4)
	handlers.StartSubscriber(ctx, feed, hub, zap.NewNop())

	payload, err := json.Marshal(models.NewEventStatusUpdate("evt-3", models.EventStatusLive, nil))
	require.NoError(t, err)
	feed <- "this is not json"
	feed <- string(payload)

	upd := readUpdate(t, conn)
	assert.Equal(t, models.UpdateTypeEventStatus, upd.Type)
	assert.Equal(t, "evt-3", upd.EventID)
	assert.Equal(t, models.EventStatusLive, upd.Status)
}
