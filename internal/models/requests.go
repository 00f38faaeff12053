package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !emailRe.MatchString(r.Email) {
		return fmt.Errorf("invalid email address")
	}
	if !usernameRe.MatchString(r.Username) {
		return fmt.Errorf("username must be 3-30 characters (letters, digits, underscore)")
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if r.FirstName == "" || len(r.FirstName) > 50 {
		return fmt.Errorf("first name must be 1-50 characters")
	}
	if r.LastName == "" || len(r.LastName) > 50 {
		return fmt.Errorf("last name must be 1-50 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

type PlaceBetRequest struct {
	EventID    string     `json:"eventId"`
	Amount     float64    `json:"amount"`
	Prediction Prediction `json:"prediction"`
}

func (r *PlaceBetRequest) Validate() error {
	if r.EventID == "" {
		return fmt.Errorf("eventId is required")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	if !ValidPrediction(r.Prediction) {
		return fmt.Errorf("prediction must be one of home, away, draw")
	}
	return nil
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Email == nil {
		return fmt.Errorf("no fields to update")
	}
	if r.FirstName != nil && (*r.FirstName == "" || len(*r.FirstName) > 50) {
		return fmt.Errorf("first name must be 1-50 characters")
	}
	if r.LastName != nil && (*r.LastName == "" || len(*r.LastName) > 50) {
		return fmt.Errorf("last name must be 1-50 characters")
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
		if !emailRe.MatchString(*r.Email) {
			return fmt.Errorf("invalid email address")
		}
	}
	return nil
}

type InitialOdds struct {
	Home float64  `json:"home"`
	Away float64  `json:"away"`
	Draw *float64 `json:"draw,omitempty"`
}

type CreateEventRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Sport       Sport       `json:"sport"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     *time.Time  `json:"endTime,omitempty"`
	InitialOdds InitialOdds `json:"initialOdds"`
}

func (r *CreateEventRequest) Validate() error {
	if r.Title == "" || len(r.Title) > 255 {
		return fmt.Errorf("title must be 1-255 characters")
	}
	if !ValidSport(r.Sport) {
		return fmt.Errorf("invalid sport: %s", r.Sport)
	}
	if r.StartTime.IsZero() {
		return fmt.Errorf("startTime is required")
	}
	if r.InitialOdds.Home < 1 || r.InitialOdds.Away < 1 {
		return fmt.Errorf("home and away odds must be at least 1")
	}
	if r.InitialOdds.Draw != nil && *r.InitialOdds.Draw < 1 {
		return fmt.Errorf("draw odds must be at least 1")
	}
	return nil
}

type UpdateOdds struct {
	Home *float64 `json:"home,omitempty"`
	Away *float64 `json:"away,omitempty"`
	Draw *float64 `json:"draw,omitempty"`
}

type UpdateResult struct {
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Winner    string `json:"winner"`
}

// UpdateEventRequest uses partial-update semantics: only fields present
// in the request are changed.
type UpdateEventRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	StartTime   *time.Time    `json:"startTime,omitempty"`
	EndTime     *time.Time    `json:"endTime,omitempty"`
	Status      *EventStatus  `json:"status,omitempty"`
	Odds        *UpdateOdds   `json:"odds,omitempty"`
	Result      *UpdateResult `json:"result,omitempty"`
}

func (r *UpdateEventRequest) Validate() error {
	if r.Title == nil && r.Description == nil && r.StartTime == nil &&
		r.EndTime == nil && r.Status == nil && r.Odds == nil && r.Result == nil {
		return fmt.Errorf("no fields to update")
	}
	if r.Title != nil && (*r.Title == "" || len(*r.Title) > 255) {
		return fmt.Errorf("title must be 1-255 characters")
	}
	if r.Status != nil && !ValidEventStatus(*r.Status) {
		return fmt.Errorf("invalid status: %s", *r.Status)
	}
	if r.Odds != nil {
		for _, v := range []*float64{r.Odds.Home, r.Odds.Away, r.Odds.Draw} {
			if v != nil && *v < 1 {
				return fmt.Errorf("odds values must be at least 1")
			}
		}
	}
	if r.Result != nil {
		switch r.Result.Winner {
		case "home", "away", "draw":
		default:
			return fmt.Errorf("winner must be one of home, away, draw")
		}
	}
	return nil
}
