package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsbook-backend/internal/models"
	"sportsbook-backend/internal/services"
)

func TestUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	users := services.NewUserService(testDB, testLogger())
	user := registerTestUser(t)

	first := "Updated"
	updated, err := users.UpdateProfile(ctx, user.ID, &models.UpdateProfileRequest{
		FirstName: &first,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.FirstName)
	assert.Equal(t, user.LastName, updated.LastName)
	assert.Equal(t, user.Email, updated.Email)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	ctx := context.Background()
	users := services.NewUserService(testDB, testLogger())
	a := registerTestUser(t)
	b := registerTestUser(t)

	_, err := users.UpdateProfile(ctx, a.ID, &models.UpdateProfileRequest{
		Email: &b.Email,
	})
	assert.ErrorIs(t, err, services.ErrAlreadyExists)

	// Changing to a fresh address works.
	fresh := fmt.Sprintf("fresh-%d@test.com", time.Now().UnixNano())
	updated, err := users.UpdateProfile(ctx, a.ID, &models.UpdateProfileRequest{
		Email: &fresh,
	})
	require.NoError(t, err)
	assert.Equal(t, fresh, updated.Email)
}

func TestUpdateProfileNoFields(t *testing.T) {
	users := services.NewUserService(testDB, testLogger())
	user := registerTestUser(t)

	_, err := users.UpdateProfile(context.Background(), user.ID, &models.UpdateProfileRequest{})
	assert.ErrorIs(t, err, services.ErrNoFieldsToUpdate)
}

func TestProfileAggregates(t *testing.T) {
	ctx := context.Background()
	users := services.NewUserService(testDB, testLogger())
	betting := newBettingService()

	user := registerTestUser(t)
	event := createTestEvent(t, 2.0, 2.0, nil)

	p, err := users.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, p.TotalBets)
	assert.Zero(t, p.WinRate)

	for i := 0; i < 2; i++ {
		_, err := betting.PlaceBet(ctx, user.ID, &models.PlaceBetRequest{
			EventID:    event.ID,
			Amount:     50,
			Prediction: models.PredictionHome,
		})
		require.NoError(t, err)
	}

	p, err = users.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.TotalBets)
	assert.Equal(t, 0.0, p.TotalWinnings)
	assert.Equal(t, 0.0, p.WinRate)
	assert.Equal(t, models.StartingBalance-100, p.Balance)
}

func TestBalanceUnknownUser(t *testing.T) {
	users := services.NewUserService(testDB, testLogger())
	_, err := users.Balance(context.Background(), "missing-user")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
