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

func newEventService() *services.EventService {
	return services.NewEventService(testDB, nil, testLogger())
}

func createEventWith(t *testing.T, svc *services.EventService, title string, sport models.Sport, startTime time.Time) *models.Event {
	t.Helper()
	draw := 3.0
	ev, err := svc.Create(context.Background(), &models.CreateEventRequest{
		Title:       title,
		Description: "integration test fixture",
		Sport:       sport,
		StartTime:   startTime,
		InitialOdds: models.InitialOdds{Home: 1.5, Away: 2.5, Draw: &draw},
	})
	require.NoError(t, err)
	return ev
}

func TestEventListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newEventService()

	// A unique marker keeps these assertions independent of rows created
	// by other tests sharing the database.
	marker := fmt.Sprintf("marker%d", time.Now().UnixNano())
	base := time.Now().Add(24 * time.Hour)

	first := createEventWith(t, svc, marker+" Lakers vs Celtics", models.SportBasketball, base)
	second := createEventWith(t, svc, marker+" Arsenal vs Chelsea", models.SportSoccer, base.Add(time.Hour))
	createEventWith(t, svc, marker+" Yankees vs Red Sox", models.SportBaseball, base.Add(2*time.Hour))

	events, p, err := svc.List(ctx, services.EventFilters{Search: marker}, 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, int64(3), p.Total)

	// Newest start time first.
	assert.Equal(t, second.ID, events[1].ID)
	assert.Equal(t, first.ID, events[2].ID)

	events, _, err = svc.List(ctx, services.EventFilters{Search: marker, Sport: models.SportSoccer}, 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, second.ID, events[0].ID)

	setEventStatus(t, first.ID, models.EventStatusLive)
	events, _, err = svc.List(ctx, services.EventFilters{Search: marker, Status: models.EventStatusLive}, 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, first.ID, events[0].ID)
}

func TestEventListPagination(t *testing.T) {
	ctx := context.Background()
	svc := newEventService()

	marker := fmt.Sprintf("paging%d", time.Now().UnixNano())
	base := time.Now().Add(24 * time.Hour)
	for i := 0; i < 5; i++ {
		createEventWith(t, svc, fmt.Sprintf("%s event %d", marker, i), models.SportTennis, base.Add(time.Duration(i)*time.Minute))
	}

	events, p, err := svc.List(ctx, services.EventFilters{Search: marker}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, 3, p.TotalPages)

	events, _, err = svc.List(ctx, services.EventFilters{Search: marker}, 3, 2)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventGetByID(t *testing.T) {
	ctx := context.Background()
	svc := newEventService()
	created := createTestEvent(t, 1.5, 2.5, nil)

	ev, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, ev.Title)
	assert.Equal(t, models.EventStatusUpcoming, ev.Status)
	assert.Equal(t, 1.5, ev.Odds.Home)
	assert.Nil(t, ev.Odds.Draw)
	assert.Nil(t, ev.Result)

	_, err = svc.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestEventUpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc := newEventService()
	created := createTestEvent(t, 1.5, 2.5, nil)

	newHome := 1.8
	updated, err := svc.Update(ctx, created.ID, &models.UpdateEventRequest{
		Odds: &models.UpdateOdds{Home: &newHome},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.8, updated.Odds.Home)
	assert.Equal(t, 2.5, updated.Odds.Away)
	assert.Equal(t, created.Title, updated.Title)

	_, err = svc.Update(ctx, created.ID, &models.UpdateEventRequest{})
	assert.ErrorIs(t, err, services.ErrNoFieldsToUpdate)
}

func TestEventStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newEventService()
	created := createTestEvent(t, 2.0, 2.0, nil)

	live := models.EventStatusLive
	_, err := svc.Update(ctx, created.ID, &models.UpdateEventRequest{Status: &live})
	require.NoError(t, err)

	// Completion and result land together.
	completed := models.EventStatusCompleted
	updated, err := svc.Update(ctx, created.ID, &models.UpdateEventRequest{
		Status: &completed,
		Result: &models.UpdateResult{HomeScore: 2, AwayScore: 1, Winner: "home"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Result)
	assert.Equal(t, "home", updated.Result.Winner)
	assert.Equal(t, 2, updated.Result.HomeScore)

	// Completed is terminal.
	upcoming := models.EventStatusUpcoming
	_, err = svc.Update(ctx, created.ID, &models.UpdateEventRequest{Status: &upcoming})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestEventResultRequiresCompleted(t *testing.T) {
	ctx := context.Background()
	svc := newEventService()
	created := createTestEvent(t, 2.0, 2.0, nil)

	_, err := svc.Update(ctx, created.ID, &models.UpdateEventRequest{
		Result: &models.UpdateResult{HomeScore: 1, AwayScore: 0, Winner: "home"},
	})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

// fakeEventCache records cache traffic so read-through and invalidation
// can be observed without Redis.
type fakeEventCache struct {
	entries map[string]*models.Event
}

func (c *fakeEventCache) GetCachedEvent(_ context.Context, id string) (*models.Event, bool, error) {
	ev, ok := c.entries[id]
	return ev, ok, nil
}

func (c *fakeEventCache) CacheEvent(_ context.Context, ev *models.Event) error {
	c.entries[ev.ID] = ev
	return nil
}

func (c *fakeEventCache) InvalidateEvent(_ context.Context, id string) error {
	delete(c.entries, id)
	return nil
}

func TestEventCacheReadThrough(t *testing.T) {
	ctx := context.Background()
	cache := &fakeEventCache{entries: make(map[string]*models.Event)}
	svc := services.NewEventService(testDB, cache, testLogger())
	created := createTestEvent(t, 2.0, 2.0, nil)

	_, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	_, cached := cache.entries[created.ID]
	assert.True(t, cached, "detail lookup should populate the cache")

	title := "renamed"
	_, err = svc.Update(ctx, created.ID, &models.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	_, cached = cache.entries[created.ID]
	assert.False(t, cached, "update should invalidate the cached entry")
}
