package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/infrastructure/auth"
	"github.com/coinvest/coinvest/internal/usecase"
)

type authServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	getUserFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *authServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	if s.registerFn == nil {
		return nil, nil
	}
	return s.registerFn(ctx, input)
}

func (s *authServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	if s.authenticateFn == nil {
		return nil, nil
	}
	return s.authenticateFn(ctx, input)
}

func (s *authServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if s.getUserFn == nil {
		return nil, nil
	}
	return s.getUserFn(ctx, id)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "alice@example.com", Role: domain.RoleUser}

	handler := NewAuthHandler(&authServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			if input.Email != "alice@example.com" {
				t.Fatalf("unexpected input %+v", input)
			}
			return user, nil
		},
	}, testJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cretpass!",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatal("expected a token to be issued on registration")
	}
	if resp.Data.User.ID != "user-1" {
		t.Fatalf("expected registered user in response, got %+v", resp.Data.User)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler := NewAuthHandler(&authServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}, testJWTManager())

	body, _ := json.Marshal(dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "s3cretpass!"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	handler := NewAuthHandler(&authServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}, testJWTManager())

	body, _ := json.Marshal(dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_IssuesVerifiableToken(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "alice@example.com", Role: domain.RoleUser}
	jwtManager := testJWTManager()

	handler := NewAuthHandler(&authServiceStub{
		authenticateFn: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return user, nil
		},
	}, jwtManager)

	body, _ := json.Marshal(dto.LoginRequest{Email: "alice@example.com", Password: "s3cretpass!"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	claims, err := jwtManager.Verify(resp.Data.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected token subject user-1, got %s", claims.UserID)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&authServiceStub{
		getUserFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "alice@example.com"}, nil
		},
	}, testJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	handler := NewAuthHandler(&authServiceStub{}, testJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
