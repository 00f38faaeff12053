package services_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"sportsbook-backend/internal/models"
	"sportsbook-backend/internal/services"
)

var (
	testDB  *pgxpool.Pool
	userSeq atomic.Int64
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sportsbook_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Fatalf("Could not start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Fatalf("Error terminating container: %v", err)
		}
	}()

	dbURL, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %v", err)
	}

	pool, err := services.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("Could not open database connection: %v", err)
	}
	testDB = pool
	defer pool.Close()

	sqlDB, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to open sql connection for migrations: %v", err)
	}
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("failed to set postgres dialect")
	}
	if err := goose.Up(sqlDB, "../../db/migrations"); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	os.Exit(m.Run())
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func newAuthService() *services.AuthService {
	users := services.NewUserService(testDB, testLogger())
	return services.NewAuthService(users, newTestJWT(), testLogger())
}

// registerTestUser creates a fresh account with a unique email/username
// and the policy starting balance.
func registerTestUser(t *testing.T) *models.User {
	t.Helper()
	auth := newAuthService()

	n := userSeq.Add(1)
	user, _, err := auth.Register(context.Background(), &models.RegisterRequest{
		Email:     fmt.Sprintf("user%d-%d@test.com", n, time.Now().UnixNano()),
		Username:  fmt.Sprintf("user_%d_%d", n, time.Now().UnixNano()%1000000),
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	return user
}

func setBalance(t *testing.T, userID string, balance float64) {
	t.Helper()
	if _, err := testDB.Exec(context.Background(),
		`UPDATE users SET balance = $1 WHERE id = $2`, balance, userID); err != nil {
		t.Fatalf("failed to set balance: %v", err)
	}
}

func createTestEvent(t *testing.T, home, away float64, draw *float64) *models.Event {
	t.Helper()
	eventsSvc := services.NewEventService(testDB, nil, testLogger())

	ev, err := eventsSvc.Create(context.Background(), &models.CreateEventRequest{
		Title:       fmt.Sprintf("Test Event %d", time.Now().UnixNano()),
		Description: "integration test fixture",
		Sport:       models.SportFootball,
		StartTime:   time.Now().Add(24 * time.Hour),
		InitialOdds: models.InitialOdds{Home: home, Away: away, Draw: draw},
	})
	if err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

func setEventStatus(t *testing.T, eventID string, status models.EventStatus) {
	t.Helper()
	if _, err := testDB.Exec(context.Background(),
		`UPDATE events SET status = $1 WHERE id = $2`, status, eventID); err != nil {
		t.Fatalf("failed to set event status: %v", err)
	}
}
