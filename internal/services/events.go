package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sportsbook-backend/internal/models"
)

// EventCache is a read-through cache for event detail lookups. A nil
// cache disables caching.
type EventCache interface {
	GetCachedEvent(ctx context.Context, eventID string) (*models.Event, bool, error)
	CacheEvent(ctx context.Context, ev *models.Event) error
	InvalidateEvent(ctx context.Context, eventID string) error
}

type EventFilters struct {
	Sport  models.Sport
	Status models.EventStatus
	Search string
}

type EventService struct {
	db    *pgxpool.Pool
	cache EventCache
	log   *zap.Logger
}

func NewEventService(db *pgxpool.Pool, cache EventCache, log *zap.Logger) *EventService {
	return &EventService{db: db, cache: cache, log: log}
}

const eventColumns = `id, title, description, sport, start_time, end_time, status,
	home_odds, away_odds, draw_odds, home_score, away_score, winner, created_at, updated_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var ev models.Event
	var homeScore, awayScore *int
	var winner *string
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Sport, &ev.StartTime,
		&ev.EndTime, &ev.Status, &ev.Odds.Home, &ev.Odds.Away, &ev.Odds.Draw,
		&homeScore, &awayScore, &winner, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ev.Odds.LastUpdated = ev.UpdatedAt
	if winner != nil {
		ev.Result = &models.EventResult{
			Winner:      *winner,
			CompletedAt: ev.UpdatedAt,
		}
		if homeScore != nil {
			ev.Result.HomeScore = *homeScore
		}
		if awayScore != nil {
			ev.Result.AwayScore = *awayScore
		}
	}
	return &ev, nil
}

// List returns events matching the filters, newest start time first.
// Absent filters match everything.
func (s *EventService) List(ctx context.Context, f EventFilters, page, limit int) ([]*models.Event, models.Pagination, error) {
	where := "WHERE 1=1"
	var args []any
	idx := 1

	if f.Sport != "" {
		where += fmt.Sprintf(" AND sport = $%d", idx)
		args = append(args, f.Sport)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", idx, idx)
		args = append(args, "%"+strings.TrimSpace(f.Search)+"%")
		idx++
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM events `+where, args...).Scan(&total); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+eventColumns+` FROM events %s ORDER BY start_time DESC LIMIT $%d OFFSET $%d`,
		where, idx, idx+1)
	args = append(args, limit, models.Offset(page, limit))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0, limit)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Pagination{}, err
	}

	return events, models.NewPagination(page, limit, total), nil
}

func (s *EventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if s.cache != nil {
		if ev, ok, err := s.cache.GetCachedEvent(ctx, id); err == nil && ok {
			return ev, nil
		}
	}

	ev, err := scanEvent(s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheEvent(ctx, ev); err != nil {
			s.log.Warn("cache event", zap.String("event_id", id), zap.Error(err))
		}
	}
	return ev, nil
}

func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	id := uuid.NewString()
	ev, err := scanEvent(s.db.QueryRow(ctx, `
		INSERT INTO events (id, title, description, sport, start_time, end_time, home_odds, away_odds, draw_odds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+eventColumns,
		id, req.Title, req.Description, req.Sport, req.StartTime, req.EndTime,
		req.InitialOdds.Home, req.InitialOdds.Away, req.InitialOdds.Draw,
	))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

// Update applies partial-update semantics and enforces the one-way
// status lifecycle. The result fields may only be set together with, or
// after, a transition to completed.
func (s *EventService) Update(ctx context.Context, id string, req *models.UpdateEventRequest) (*models.Event, error) {
	existing, err := scanEvent(s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != existing.Status {
		if !existing.Status.CanTransitionTo(*req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, *req.Status)
		}
	}
	if req.Result != nil {
		status := existing.Status
		if req.Status != nil {
			status = *req.Status
		}
		if status != models.EventStatusCompleted {
			return nil, fmt.Errorf("%w: result requires completed status", ErrInvalidTransition)
		}
	}

	var sets []string
	var args []any
	idx := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Title != nil {
		appendSet("title", *req.Title)
	}
	if req.Description != nil {
		appendSet("description", *req.Description)
	}
	if req.StartTime != nil {
		appendSet("start_time", *req.StartTime)
	}
	if req.EndTime != nil {
		appendSet("end_time", *req.EndTime)
	}
	if req.Status != nil {
		appendSet("status", *req.Status)
	}
	if req.Odds != nil {
		if req.Odds.Home != nil {
			appendSet("home_odds", *req.Odds.Home)
		}
		if req.Odds.Away != nil {
			appendSet("away_odds", *req.Odds.Away)
		}
		if req.Odds.Draw != nil {
			appendSet("draw_odds", *req.Odds.Draw)
		}
	}
	if req.Result != nil {
		appendSet("home_score", req.Result.HomeScore)
		appendSet("away_score", req.Result.AwayScore)
		appendSet("winner", req.Result.Winner)
	}

	if len(sets) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	appendSet("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING `+eventColumns,
		strings.Join(sets, ", "), idx)

	ev, err := scanEvent(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateEvent(ctx, id); err != nil {
			s.log.Warn("invalidate event cache", zap.String("event_id", id), zap.Error(err))
		}
	}
	return ev, nil
}
