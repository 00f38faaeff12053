package services

import (
	"context"

	"sportsbook-backend/internal/models"
)

// Broadcaster pushes live updates toward connected clients. Delivery is
// best-effort with no acknowledgement; implementations must not block
// the calling request.
type Broadcaster interface {
	BroadcastOddsUpdate(ctx context.Context, eventID string, odds models.EventOdds)
	BroadcastEventStatus(ctx context.Context, eventID string, status models.EventStatus, result *models.EventResult)
	BroadcastBalanceUpdate(ctx context.Context, userID string, newBalance float64)
}
