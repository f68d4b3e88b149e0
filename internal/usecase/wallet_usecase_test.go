package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
	"github.com/coinvest/coinvest/internal/usecase/mocks"
)

func newWalletUseCase() (*usecase.WalletUseCase, *mocks.MockWalletRepository) {
	walletRepo := mocks.NewMockWalletRepository()
	uc := usecase.NewWalletUseCase(walletRepo, mocks.NewMockAuditRepository(), mocks.NewMockIDGenerator())
	return uc, walletRepo
}

func TestWalletUseCase_CreateWallet(t *testing.T) {
	uc, _ := newWalletUseCase()

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		UserID:     "user-1",
		Name:       "Main",
		CryptoType: domain.CryptoBTC,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wallet.IsSystem() {
		t.Error("user wallet must have an owner")
	}
	if !strings.HasPrefix(wallet.Address, "0x") || len(wallet.Address) != 42 {
		t.Errorf("expected generated hex address, got %q", wallet.Address)
	}

	// Same name for the same user is refused.
	_, err = uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		UserID:     "user-1",
		Name:       "Main",
		CryptoType: domain.CryptoETH,
	})
	if !errors.Is(err, domain.ErrDuplicateWalletName) {
		t.Fatalf("expected ErrDuplicateWalletName, got %v", err)
	}

	// Another user can reuse the name.
	if _, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		UserID:     "user-2",
		Name:       "Main",
		CryptoType: domain.CryptoBTC,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWalletUseCase_CreateWallet_Validation(t *testing.T) {
	uc, _ := newWalletUseCase()

	if _, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		UserID:     "user-1",
		CryptoType: domain.CryptoBTC,
	}); !errors.Is(err, domain.ErrInvalidWalletName) {
		t.Fatalf("expected ErrInvalidWalletName, got %v", err)
	}

	if _, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		UserID:     "user-1",
		Name:       "Main",
		CryptoType: "DOGE",
	}); !errors.Is(err, domain.ErrInvalidCryptoType) {
		t.Fatalf("expected ErrInvalidCryptoType, got %v", err)
	}
}

func TestWalletUseCase_GetUserWallet_Ownership(t *testing.T) {
	uc, _ := newWalletUseCase()

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		UserID:     "user-1",
		Name:       "Main",
		CryptoType: domain.CryptoBTC,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.GetUserWallet(context.Background(), "user-1", wallet.ID); err != nil {
		t.Fatalf("owner must see the wallet: %v", err)
	}

	// Another user gets not-found, not forbidden, so wallet IDs are not
	// probeable.
	if _, err := uc.GetUserWallet(context.Background(), "user-2", wallet.ID); !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound for foreign wallet, got %v", err)
	}
}

func TestWalletUseCase_SystemWallets(t *testing.T) {
	uc, walletRepo := newWalletUseCase()

	wallet, err := uc.CreateSystemWallet(context.Background(), usecase.CreateSystemWalletInput{
		CryptoType: domain.CryptoBTC,
		Address:    "0xplatform",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wallet.IsSystem() {
		t.Error("system wallet must have no owner")
	}

	// One system wallet per crypto type.
	_, err = uc.CreateSystemWallet(context.Background(), usecase.CreateSystemWalletInput{
		CryptoType: domain.CryptoBTC,
		Address:    "0xother",
	})
	if !errors.Is(err, domain.ErrDuplicateSystemWallet) {
		t.Fatalf("expected ErrDuplicateSystemWallet, got %v", err)
	}

	// A second currency is fine.
	if _, err := uc.CreateSystemWallet(context.Background(), usecase.CreateSystemWalletInput{
		CryptoType: domain.CryptoETH,
		Address:    "0xeth",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rotated, err := uc.UpdateSystemWallet(context.Background(), usecase.UpdateSystemWalletInput{
		CryptoType: domain.CryptoBTC,
		Address:    "0xrotated",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rotated.Address != "0xrotated" {
		t.Errorf("expected rotated address, got %s", rotated.Address)
	}

	if err := uc.DeleteSystemWallet(context.Background(), domain.CryptoBTC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := walletRepo.GetSystemWallet(context.Background(), domain.CryptoBTC); !errors.Is(err, domain.ErrNoSystemWallet) {
		t.Fatalf("expected ErrNoSystemWallet after delete, got %v", err)
	}
}

func TestWalletUseCase_DeleteUserWallet(t *testing.T) {
	uc, _ := newWalletUseCase()

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		UserID:     "user-1",
		Name:       "Main",
		CryptoType: domain.CryptoBTC,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.DeleteUserWallet(context.Background(), "user-2", wallet.ID); !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound for foreign delete, got %v", err)
	}

	if err := uc.DeleteUserWallet(context.Background(), "user-1", wallet.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wallets, _ := uc.ListUserWallets(context.Background(), "user-1")
	if len(wallets) != 0 {
		t.Errorf("expected no wallets, got %d", len(wallets))
	}
}
