package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate
// these into HTTP statuses; anything else is treated as internal.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("invalid or expired token")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrEventNotAvailable  = errors.New("event not available for betting")
	ErrNoOddsForOutcome   = errors.New("no odds available for this prediction")
	ErrPlacementFailed    = errors.New("failed to place bet")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrInvalidTransition  = errors.New("invalid status transition")
)
