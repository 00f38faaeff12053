package models

import "time"

// Live update kinds pushed over the real-time channel.
const (
	UpdateTypeOdds        = "odds_update"
	UpdateTypeEventStatus = "event_status_update"
	UpdateTypeBalance     = "balance_update"
)

// LiveUpdate is the tagged union carried on the broadcast channel and
// delivered to WebSocket subscribers. Exactly one payload group is set
// depending on Type: odds updates and status updates target an event
// room, balance updates target a user room.
type LiveUpdate struct {
	Type       string       `json:"type"`
	EventID    string       `json:"eventId,omitempty"`
	UserID     string       `json:"userId,omitempty"`
	Odds       *EventOdds   `json:"odds,omitempty"`
	Status     EventStatus  `json:"status,omitempty"`
	Result     *EventResult `json:"result,omitempty"`
	NewBalance *float64     `json:"newBalance,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

func NewOddsUpdate(eventID string, odds EventOdds) LiveUpdate {
	return LiveUpdate{
		Type:      UpdateTypeOdds,
		EventID:   eventID,
		Odds:      &odds,
		Timestamp: time.Now().UTC(),
	}
}

func NewEventStatusUpdate(eventID string, status EventStatus, result *EventResult) LiveUpdate {
	return LiveUpdate{
		Type:      UpdateTypeEventStatus,
		EventID:   eventID,
		Status:    status,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}
}

func NewBalanceUpdate(userID string, newBalance float64) LiveUpdate {
	return LiveUpdate{
		Type:       UpdateTypeBalance,
		UserID:     userID,
		NewBalance: &newBalance,
		Timestamp:  time.Now().UTC(),
	}
}
