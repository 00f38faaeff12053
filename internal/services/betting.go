package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sportsbook-backend/internal/metrics"
	"sportsbook-backend/internal/models"
)

type BettingService struct {
	db          *pgxpool.Pool
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewBettingService(db *pgxpool.Pool, b Broadcaster, m *metrics.Metrics, log *zap.Logger) *BettingService {
	return &BettingService{db: db, broadcaster: b, metrics: m, log: log}
}

// PlaceBet validates funds and odds, then atomically inserts the bet,
// debits the stake, and appends the audit transaction. The user row is
// locked for the duration of the transaction, so two concurrent
// placements by the same user serialize and cannot overdraw the balance.
func (s *BettingService) PlaceBet(ctx context.Context, userID string, req *models.PlaceBetRequest) (*models.Bet, error) {
	if err := req.Validate(); err != nil {
		s.reject("invalid_input")
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin placement: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance float64
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 AND is_active = true FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock user row: %w", err)
	}

	if balance < req.Amount {
		s.reject("insufficient_funds")
		return nil, ErrInsufficientFunds
	}

	var (
		title  string
		status models.EventStatus
		odds   models.EventOdds
	)
	err = tx.QueryRow(ctx,
		`SELECT title, status, home_odds, away_odds, draw_odds FROM events WHERE id = $1`,
		req.EventID,
	).Scan(&title, &status, &odds.Home, &odds.Away, &odds.Draw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.reject("event_not_found")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}

	if !status.IsOpenForBetting() {
		s.reject("event_not_available")
		return nil, ErrEventNotAvailable
	}

	// Odds are resolved once, here. The captured value is what the bet
	// pays out against, regardless of later odds changes.
	oddsValue := odds.ForPrediction(req.Prediction)
	if oddsValue <= 0 {
		s.reject("no_odds_for_outcome")
		return nil, ErrNoOddsForOutcome
	}

	potentialWinnings := models.CalculatePotentialWinnings(req.Amount, oddsValue)
	newBalance := balance - req.Amount

	bet := &models.Bet{
		ID:                uuid.NewString(),
		UserID:            userID,
		EventID:           req.EventID,
		EventTitle:        title,
		Amount:            req.Amount,
		Odds:              oddsValue,
		Prediction:        req.Prediction,
		Status:            models.BetStatusPending,
		PotentialWinnings: potentialWinnings,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO bets (id, user_id, event_id, amount, odds, prediction, status, potential_winnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING placed_at`,
		bet.ID, bet.UserID, bet.EventID, bet.Amount, bet.Odds, bet.Prediction, bet.Status, bet.PotentialWinnings,
	).Scan(&bet.PlacedAt)
	if err != nil {
		s.log.Error("insert bet", zap.String("user_id", userID), zap.String("event_id", req.EventID), zap.Error(err))
		return nil, ErrPlacementFailed
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET balance = balance - $1 WHERE id = $2`, req.Amount, userID); err != nil {
		s.log.Error("debit balance", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrPlacementFailed
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, description, balance_before, balance_after, bet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), userID, models.TransactionTypeBet, -req.Amount,
		fmt.Sprintf("Bet placed on %s", title), balance, newBalance, bet.ID,
	)
	if err != nil {
		s.log.Error("append transaction", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrPlacementFailed
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("commit placement", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrPlacementFailed
	}

	if s.metrics != nil {
		s.metrics.BetsPlaced.Inc()
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastBalanceUpdate(ctx, userID, newBalance)
	}

	s.log.Info("bet placed",
		zap.String("bet_id", bet.ID),
		zap.String("user_id", userID),
		zap.String("event_id", req.EventID),
		zap.Float64("amount", req.Amount),
		zap.Float64("odds", oddsValue))

	return bet, nil
}

func (s *BettingService) reject(reason string) {
	if s.metrics != nil {
		s.metrics.BetsRejected.WithLabelValues(reason).Inc()
	}
}

const betColumns = `b.id, b.user_id, b.event_id, e.title, b.amount, b.odds, b.prediction,
	b.status, b.potential_winnings, b.actual_winnings, b.placed_at, b.settled_at`

func scanBet(row pgx.Row) (*models.Bet, error) {
	var b models.Bet
	err := row.Scan(&b.ID, &b.UserID, &b.EventID, &b.EventTitle, &b.Amount, &b.Odds,
		&b.Prediction, &b.Status, &b.PotentialWinnings, &b.ActualWinnings, &b.PlacedAt, &b.SettledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListUserBets returns the caller's bets, most recent first, optionally
// filtered by status.
func (s *BettingService) ListUserBets(ctx context.Context, userID string, status models.BetStatus, page, limit int) ([]*models.Bet, models.Pagination, error) {
	where := "WHERE b.user_id = $1"
	args := []any{userID}
	idx := 2

	if status != "" {
		where += fmt.Sprintf(" AND b.status = $%d", idx)
		args = append(args, status)
		idx++
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM bets b `+where, args...).Scan(&total); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count bets: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+betColumns+`
		FROM bets b
		JOIN events e ON b.event_id = e.id
		%s
		ORDER BY b.placed_at DESC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, models.Offset(page, limit))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list bets: %w", err)
	}
	defer rows.Close()

	bets := make([]*models.Bet, 0, limit)
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Pagination{}, err
	}

	return bets, models.NewPagination(page, limit, total), nil
}

// GetUserBet fetches a single bet; ownership is enforced in the query,
// so another user's bet is indistinguishable from a missing one.
func (s *BettingService) GetUserBet(ctx context.Context, userID, betID string) (*models.Bet, error) {
	return scanBet(s.db.QueryRow(ctx, `
		SELECT `+betColumns+`
		FROM bets b
		JOIN events e ON b.event_id = e.id
		WHERE b.id = $1 AND b.user_id = $2`,
		betID, userID))
}
