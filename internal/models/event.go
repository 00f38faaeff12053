package models

import "time"

type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportTennis     Sport = "tennis"
	SportBaseball   Sport = "baseball"
	SportHockey     Sport = "hockey"
	SportSoccer     Sport = "soccer"
	SportCricket    Sport = "cricket"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusLive      EventStatus = "live"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// IsOpenForBetting reports whether bets may still be placed on an event
// in this status. Betting closes once an event completes or is cancelled.
func (s EventStatus) IsOpenForBetting() bool {
	return s == EventStatusUpcoming || s == EventStatusLive
}

// CanTransitionTo enforces the one-directional status lifecycle:
// upcoming -> live -> completed, with cancellation allowed from
// upcoming or live.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusUpcoming:
		return next == EventStatusLive || next == EventStatusCompleted || next == EventStatusCancelled
	case EventStatusLive:
		return next == EventStatusCompleted || next == EventStatusCancelled
	default:
		return false
	}
}

// EventOdds holds the decimal odds per outcome. Draw is nil for
// two-outcome markets.
type EventOdds struct {
	Home        float64   `json:"home"`
	Away        float64   `json:"away"`
	Draw        *float64  `json:"draw,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ForPrediction returns the odds value for a predicted outcome, or 0 if
// the outcome has no market on this event.
func (o EventOdds) ForPrediction(p Prediction) float64 {
	switch p {
	case PredictionHome:
		return o.Home
	case PredictionAway:
		return o.Away
	case PredictionDraw:
		if o.Draw != nil {
			return *o.Draw
		}
	}
	return 0
}

type EventResult struct {
	HomeScore   int       `json:"homeScore"`
	AwayScore   int       `json:"awayScore"`
	Winner      string    `json:"winner"`
	CompletedAt time.Time `json:"completedAt"`
}

type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Sport       Sport        `json:"sport"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     *time.Time   `json:"endTime,omitempty"`
	Status      EventStatus  `json:"status"`
	Odds        EventOdds    `json:"odds"`
	Result      *EventResult `json:"result,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func ValidSport(s Sport) bool {
	switch s {
	case SportFootball, SportBasketball, SportTennis, SportBaseball,
		SportHockey, SportSoccer, SportCricket:
		return true
	}
	return false
}

func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventStatusUpcoming, EventStatusLive, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
