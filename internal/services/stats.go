package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sportsbook-backend/internal/models"
)

type BetActivity struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type PlatformStats struct {
	TotalUsers     int64         `json:"totalUsers"`
	TotalEvents    int64         `json:"totalEvents"`
	TotalBets      int64         `json:"totalBets"`
	TotalVolume    float64       `json:"totalVolume"`
	ActiveEvents   int64         `json:"activeEvents"`
	RecentActivity []BetActivity `json:"recentActivity"`
}

type StatsService struct {
	db *pgxpool.Pool
}

func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// PlatformStats aggregates platform-wide counters plus the ten most
// recent bets.
func (s *StatsService) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{RecentActivity: []BetActivity{}}

	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active = true),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM bets),
			(SELECT COALESCE(SUM(amount), 0) FROM bets),
			(SELECT COUNT(*) FROM events WHERE status = $1)`,
		models.EventStatusLive,
	).Scan(&stats.TotalUsers, &stats.TotalEvents, &stats.TotalBets, &stats.TotalVolume, &stats.ActiveEvents)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT user_id, amount, placed_at
		FROM bets
		ORDER BY placed_at DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := BetActivity{Type: "bet_placed"}
		if err := rows.Scan(&a.UserID, &a.Amount, &a.Timestamp); err != nil {
			return nil, err
		}
		stats.RecentActivity = append(stats.RecentActivity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
