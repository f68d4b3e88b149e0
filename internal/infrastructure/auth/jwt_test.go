package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/coinvest/coinvest/internal/domain"
)

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	user := &domain.User{ID: "user-1", Email: "alice@example.com", Role: domain.RoleAdmin}
	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role to round-trip, got %s", claims.Role)
	}
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate(&domain.User{ID: "user-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = manager.Verify(token)
	if !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := issuer.Generate(&domain.User{ID: "user-1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	if _, err := manager.Verify("not.a.token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
