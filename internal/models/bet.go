package models

import "time"

type Prediction string

const (
	PredictionHome Prediction = "home"
	PredictionAway Prediction = "away"
	PredictionDraw Prediction = "draw"
)

func ValidPrediction(p Prediction) bool {
	return p == PredictionHome || p == PredictionAway || p == PredictionDraw
}

type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusCancelled BetStatus = "cancelled"
)

// Bet captures a wager at placement time. Odds and potential winnings are
// frozen when the bet is created; later odds changes on the event never
// touch existing bets. ActualWinnings and SettledAt are only written by
// settlement, which this system does not perform.
type Bet struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	EventID           string     `json:"eventId"`
	EventTitle        string     `json:"eventTitle,omitempty"`
	Amount            float64    `json:"amount"`
	Odds              float64    `json:"odds"`
	Prediction        Prediction `json:"prediction"`
	Status            BetStatus  `json:"status"`
	PotentialWinnings float64    `json:"potentialWinnings"`
	ActualWinnings    *float64   `json:"actualWinnings,omitempty"`
	PlacedAt          time.Time  `json:"placedAt"`
	SettledAt         *time.Time `json:"settledAt,omitempty"`
}

// CalculatePotentialWinnings applies the odds multiplier to a stake.
func CalculatePotentialWinnings(stake, odds float64) float64 {
	return stake * odds
}
