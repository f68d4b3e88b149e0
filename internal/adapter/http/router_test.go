package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/coinvest/coinvest/internal/adapter/http/handler"
	apimiddleware "github.com/coinvest/coinvest/internal/adapter/http/middleware"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/infrastructure/auth"
	"github.com/coinvest/coinvest/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_PlansCatalogIsPublic(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected plan catalog without auth, got %d", rec.Code)
	}
}

func TestNewRouter_TransactionsRequireAuth(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestNewRouter_BearerTokenGrantsAccess(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	token, err := jwtManager.Generate(&domain.User{ID: "user-1", Email: "a@b.c", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d", rec.Code)
	}
}

func TestNewRouter_AdminRoutesRejectRegularUsers(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	token, err := jwtManager.Generate(&domain.User{ID: "user-1", Email: "a@b.c", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/transactions/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"email":"a@b.c","password":"s3cretpass!","name":"A"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatal("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/users/overview",
		"GET /api/v1/plans/",
		"POST /api/v1/wallets/",
		"POST /api/v1/transactions/invest",
		"POST /api/v1/transactions/withdraw",
		"POST /api/v1/transactions/deposit",
		"PUT /api/v1/admin/transactions/{id}/approve",
		"PUT /api/v1/admin/transactions/{id}/reject",
		"POST /api/v1/admin/users/{id}/adjustments",
		"PUT /api/v1/admin/system-wallets/{cryptoType}",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)

	cfg := RouterConfig{
		AuthHandler:         handler.NewAuthHandler(stubAuthService{}, jwtManager),
		UserHandler:         handler.NewUserHandler(stubUserService{}),
		PlanHandler:         handler.NewPlanHandler(stubPlanService{}),
		WalletHandler:       handler.NewWalletHandler(stubWalletService{}),
		TransactionHandler:  handler.NewTransactionHandler(stubTransactionService{}),
		NotificationHandler: handler.NewNotificationHandler(stubNotificationService{}),
		HealthHandler:       &handler.HealthHandler{},
		JWTManager:          jwtManager,
		Logger:              zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: input.Email}, nil
}

func (stubAuthService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: input.Email}, nil
}

func (stubAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

type stubUserService struct{}

func (stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (stubUserService) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*domain.User, error) {
	return &domain.User{ID: input.ID}, nil
}

func (stubUserService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	return nil
}

func (stubUserService) GetOverview(ctx context.Context, id string) (*usecase.AccountOverview, error) {
	return &usecase.AccountOverview{}, nil
}

func (stubUserService) DeleteUser(ctx context.Context, id string) error {
	return nil
}

func (stubUserService) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return []*domain.User{}, nil
}

type stubPlanService struct{}

func (stubPlanService) CreatePlan(ctx context.Context, input usecase.CreatePlanInput) (*domain.InvestmentPlan, error) {
	return &domain.InvestmentPlan{ID: "plan-1"}, nil
}

func (stubPlanService) GetPlan(ctx context.Context, id string) (*domain.InvestmentPlan, error) {
	return &domain.InvestmentPlan{ID: id}, nil
}

func (stubPlanService) UpdatePlan(ctx context.Context, input usecase.UpdatePlanInput) (*domain.InvestmentPlan, error) {
	return &domain.InvestmentPlan{ID: input.ID}, nil
}

func (stubPlanService) DeletePlan(ctx context.Context, id string) error {
	return nil
}

func (stubPlanService) ListPlans(ctx context.Context, input usecase.ListPlansInput) ([]*domain.InvestmentPlan, error) {
	return []*domain.InvestmentPlan{}, nil
}

type stubWalletService struct{}

func (stubWalletService) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
	return &domain.Wallet{ID: "wallet-1"}, nil
}

func (stubWalletService) GetUserWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	return &domain.Wallet{ID: walletID}, nil
}

func (stubWalletService) ListUserWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	return []*domain.Wallet{}, nil
}

func (stubWalletService) DeleteUserWallet(ctx context.Context, userID, walletID string) error {
	return nil
}

func (stubWalletService) CreateSystemWallet(ctx context.Context, input usecase.CreateSystemWalletInput) (*domain.Wallet, error) {
	return &domain.Wallet{ID: "wallet-sys"}, nil
}

func (stubWalletService) UpdateSystemWallet(ctx context.Context, input usecase.UpdateSystemWalletInput) (*domain.Wallet, error) {
	return &domain.Wallet{ID: "wallet-sys"}, nil
}

func (stubWalletService) DeleteSystemWallet(ctx context.Context, cryptoType domain.CryptoType) error {
	return nil
}

func (stubWalletService) ListSystemWallets(ctx context.Context) ([]*domain.Wallet, error) {
	return []*domain.Wallet{}, nil
}

type stubTransactionService struct{}

func (stubTransactionService) CreateInvestment(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1"}, nil
}

func (stubTransactionService) RequestWithdrawal(ctx context.Context, input usecase.RequestWithdrawalInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1"}, nil
}

func (stubTransactionService) CreateDeposit(ctx context.Context, input usecase.CreateDepositInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1"}, nil
}

func (stubTransactionService) Approve(ctx context.Context, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (stubTransactionService) Reject(ctx context.Context, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (stubTransactionService) CreateAdjustment(ctx context.Context, input usecase.CreateAdjustmentInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-adj"}, nil
}

func (stubTransactionService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (stubTransactionService) ListByUser(ctx context.Context, input usecase.ListByUserInput) ([]*domain.Transaction, error) {
	return []*domain.Transaction{}, nil
}

func (stubTransactionService) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	return []*domain.Transaction{}, nil
}

func (stubTransactionService) InvestmentVolume(ctx context.Context) (domain.Volume, error) {
	return domain.Volume{}, nil
}

type stubNotificationService struct{}

func (stubNotificationService) ListForUser(ctx context.Context, input usecase.ListForUserInput) ([]*domain.Notification, error) {
	return []*domain.Notification{}, nil
}

func (stubNotificationService) List(ctx context.Context, limit, offset int) ([]*domain.Notification, error) {
	return []*domain.Notification{}, nil
}

func (stubNotificationService) UnreadCount(ctx context.Context) (int64, error) {
	return 0, nil
}

func (stubNotificationService) MarkAllRead(ctx context.Context) error {
	return nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
