package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sportsbook-backend/internal/models"
)

const pgUniqueViolation = "23505"

type UserService struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewUserService(db *pgxpool.Pool, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

const userColumns = `id, email, username, password_hash, first_name, last_name, balance, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Balance, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active = true`, id)
	return scanUser(row)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active = true`, email)
	return scanUser(row)
}

func (s *UserService) Create(ctx context.Context, u *models.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, username, password_hash, first_name, last_name, balance, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Balance, u.Role,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateProfile changes only the fields present in the request. An email
// already held by another account is a conflict.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Email != nil {
		var taken bool
		err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id != $2)`,
			*req.Email, userID).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("email conflict check: %w", err)
		}
		if taken {
			return nil, ErrAlreadyExists
		}
	}

	var sets []string
	var args []any
	idx := 1

	if req.FirstName != nil {
		sets = append(sets, fmt.Sprintf("first_name = $%d", idx))
		args = append(args, *req.FirstName)
		idx++
	}
	if req.LastName != nil {
		sets = append(sets, fmt.Sprintf("last_name = $%d", idx))
		args = append(args, *req.LastName)
		idx++
	}
	if req.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", idx))
		args = append(args, *req.Email)
		idx++
	}

	if len(sets) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", idx))
	args = append(args, time.Now().UTC())
	idx++

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), idx)

	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

// Profile aggregates betting stats alongside the user row.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRow(ctx, `
		SELECT
			u.id, u.email, u.username, u.first_name, u.last_name, u.balance,
			COUNT(b.id) AS total_bets,
			COALESCE(SUM(CASE WHEN b.status = 'won' THEN b.actual_winnings ELSE 0 END), 0) AS total_winnings,
			CASE
				WHEN COUNT(b.id) > 0 THEN
					ROUND(COUNT(CASE WHEN b.status = 'won' THEN 1 END)::DECIMAL / COUNT(b.id) * 100, 2)
				ELSE 0
			END AS win_rate
		FROM users u
		LEFT JOIN bets b ON u.id = b.user_id
		WHERE u.id = $1 AND u.is_active = true
		GROUP BY u.id`,
		userID,
	).Scan(&p.ID, &p.Email, &p.Username, &p.FirstName, &p.LastName, &p.Balance,
		&p.TotalBets, &p.TotalWinnings, &p.WinRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &p, nil
}

func (s *UserService) Balance(ctx context.Context, userID string) (float64, error) {
	var balance float64
	err := s.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 AND is_active = true`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}
