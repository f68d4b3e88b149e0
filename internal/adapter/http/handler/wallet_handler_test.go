package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

type walletServiceStub struct {
	createFn       func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	getFn          func(ctx context.Context, userID, walletID string) (*domain.Wallet, error)
	listFn         func(ctx context.Context, userID string) ([]*domain.Wallet, error)
	deleteFn       func(ctx context.Context, userID, walletID string) error
	createSystemFn func(ctx context.Context, input usecase.CreateSystemWalletInput) (*domain.Wallet, error)
	updateSystemFn func(ctx context.Context, input usecase.UpdateSystemWalletInput) (*domain.Wallet, error)
	deleteSystemFn func(ctx context.Context, cryptoType domain.CryptoType) error
	listSystemFn   func(ctx context.Context) ([]*domain.Wallet, error)
}

func (s *walletServiceStub) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
	if s.createFn == nil {
		return nil, nil
	}
	return s.createFn(ctx, input)
}

func (s *walletServiceStub) GetUserWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, userID, walletID)
}

func (s *walletServiceStub) ListUserWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID)
}

func (s *walletServiceStub) DeleteUserWallet(ctx context.Context, userID, walletID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, userID, walletID)
}

func (s *walletServiceStub) CreateSystemWallet(ctx context.Context, input usecase.CreateSystemWalletInput) (*domain.Wallet, error) {
	if s.createSystemFn == nil {
		return nil, nil
	}
	return s.createSystemFn(ctx, input)
}

func (s *walletServiceStub) UpdateSystemWallet(ctx context.Context, input usecase.UpdateSystemWalletInput) (*domain.Wallet, error) {
	if s.updateSystemFn == nil {
		return nil, nil
	}
	return s.updateSystemFn(ctx, input)
}

func (s *walletServiceStub) DeleteSystemWallet(ctx context.Context, cryptoType domain.CryptoType) error {
	if s.deleteSystemFn == nil {
		return nil
	}
	return s.deleteSystemFn(ctx, cryptoType)
}

func (s *walletServiceStub) ListSystemWallets(ctx context.Context) ([]*domain.Wallet, error) {
	if s.listSystemFn == nil {
		return nil, nil
	}
	return s.listSystemFn(ctx)
}

func TestWalletHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateWalletInput

	handler := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			captured = input
			userID := input.UserID
			return &domain.Wallet{ID: "wallet-1", UserID: &userID, Name: input.Name}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateWalletRequest{Name: "Cold storage", CryptoType: "BTC"})
	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader(body))
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.UserID != "user-1" || captured.CryptoType != domain.CryptoBTC {
		t.Fatalf("expected input to carry the actor, got %+v", captured)
	}
}

func TestWalletHandler_Create_DuplicateName(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			return nil, domain.ErrDuplicateWalletName
		},
	})

	body, _ := json.Marshal(dto.CreateWalletRequest{Name: "Cold storage", CryptoType: "BTC"})
	req := httptest.NewRequest(http.MethodPost, "/wallets", bytes.NewReader(body))
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestWalletHandler_CreateSystem_Duplicate(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		createSystemFn: func(ctx context.Context, input usecase.CreateSystemWalletInput) (*domain.Wallet, error) {
			return nil, domain.ErrDuplicateSystemWallet
		},
	})

	body, _ := json.Marshal(dto.SystemWalletRequest{CryptoType: "BTC", Address: "bc1qexample"})
	req := httptest.NewRequest(http.MethodPost, "/admin/system-wallets", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateSystem(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestWalletHandler_UpdateSystem_UsesPathCryptoType(t *testing.T) {
	var captured usecase.UpdateSystemWalletInput

	handler := NewWalletHandler(&walletServiceStub{
		updateSystemFn: func(ctx context.Context, input usecase.UpdateSystemWalletInput) (*domain.Wallet, error) {
			captured = input
			return &domain.Wallet{ID: "wallet-sys", CryptoType: input.CryptoType, Address: input.Address}, nil
		},
	})

	body, _ := json.Marshal(dto.SystemWalletRequest{Address: "0xnewaddress"})
	req := httptest.NewRequest(http.MethodPut, "/admin/system-wallets/ETH", bytes.NewReader(body))
	req = setChiURLParam(req, "cryptoType", "ETH")
	rec := httptest.NewRecorder()

	handler.UpdateSystem(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.CryptoType != domain.CryptoETH || captured.Address != "0xnewaddress" {
		t.Fatalf("expected path crypto type to win, got %+v", captured)
	}
}

func TestWalletHandler_Delete_NotFound(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		deleteFn: func(ctx context.Context, userID, walletID string) error {
			return domain.ErrWalletNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/wallets/wallet-404", nil)
	req = setChiURLParam(req, "id", "wallet-404")
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
