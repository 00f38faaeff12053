package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// StartingBalance is credited to every new account on registration.
const StartingBalance = 1000.00

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Balance      float64   `json:"balance"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserProfile is the profile view with aggregated betting stats.
type UserProfile struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Username      string  `json:"username"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Balance       float64 `json:"balance"`
	TotalBets     int64   `json:"totalBets"`
	TotalWinnings float64 `json:"totalWinnings"`
	WinRate       float64 `json:"winRate"`
}
