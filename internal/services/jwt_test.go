package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sportsbook-backend/internal/config"
	"sportsbook-backend/internal/services"
)

func newTestJWT() *services.JWTService {
	return services.NewJWTService(&config.Config{JWTSecret: "test-secret"})
}

func TestJWTRoundTrip(t *testing.T) {
	svc := newTestJWT()

	token, err := svc.Generate("user-123")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	userID, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %s", userID)
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc := newTestJWT()

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Validate(tok); err == nil {
			t.Errorf("expected error for token %q", tok)
		}
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	other := services.NewJWTService(&config.Config{JWTSecret: "other-secret"})
	token, err := other.Generate("user-123")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := newTestJWT().Validate(token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	claims := services.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if _, err := newTestJWT().Validate(expired); err == nil {
		t.Error("expired token should be rejected")
	}
}
