package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/coinvest/coinvest/internal/domain"
)

// WalletUseCase handles the wallet registry: per-user named wallets and
// the platform-owned system wallets that act as deposit/investment
// counterparties.
type WalletUseCase struct {
	walletRepo WalletRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(walletRepo WalletRepository, auditRepo AuditRepository, idGen IDGenerator) *WalletUseCase {
	return &WalletUseCase{
		walletRepo: walletRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
	}
}

// CreateWalletInput represents input for creating a user wallet.
type CreateWalletInput struct {
	UserID     string
	Name       string
	CryptoType domain.CryptoType
}

// CreateWallet registers a wallet for the user. Names are unique per
// user; the address is generated server-side.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidWalletName
	}
	if !input.CryptoType.IsValid() {
		return nil, domain.ErrInvalidCryptoType
	}

	if _, err := uc.walletRepo.GetUserWalletByName(ctx, input.UserID, input.Name); err == nil {
		return nil, domain.ErrDuplicateWalletName
	} else if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	address, err := generateAddress()
	if err != nil {
		return nil, fmt.Errorf("failed to generate wallet address: %w", err)
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:         uc.idGen.Generate(),
		UserID:     &input.UserID,
		Name:       input.Name,
		CryptoType: input.CryptoType,
		Address:    address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// GetUserWallet returns a wallet only if it belongs to the user.
func (uc *WalletUseCase) GetUserWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.OwnedBy(userID) {
		return nil, domain.ErrWalletNotFound
	}
	return wallet, nil
}

// ListUserWallets lists the user's wallets.
func (uc *WalletUseCase) ListUserWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	return uc.walletRepo.ListByUser(ctx, userID)
}

// DeleteUserWallet removes one of the user's wallets.
func (uc *WalletUseCase) DeleteUserWallet(ctx context.Context, userID, walletID string) error {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return err
	}
	if !wallet.OwnedBy(userID) {
		return domain.ErrWalletNotFound
	}
	return uc.walletRepo.Delete(ctx, walletID)
}

// CreateSystemWalletInput represents input for creating a system wallet.
type CreateSystemWalletInput struct {
	CryptoType domain.CryptoType
	Address    string
}

// CreateSystemWallet registers the platform wallet for a crypto type.
// At most one system wallet exists per crypto type.
func (uc *WalletUseCase) CreateSystemWallet(ctx context.Context, input CreateSystemWalletInput) (*domain.Wallet, error) {
	if !input.CryptoType.IsValid() {
		return nil, domain.ErrInvalidCryptoType
	}
	if input.Address == "" {
		return nil, domain.ErrInvalidWalletAddress
	}

	if _, err := uc.walletRepo.GetSystemWallet(ctx, input.CryptoType); err == nil {
		return nil, domain.ErrDuplicateSystemWallet
	} else if !errors.Is(err, domain.ErrNoSystemWallet) {
		return nil, err
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:         uc.idGen.Generate(),
		Name:       fmt.Sprintf("System %s Wallet", input.CryptoType),
		CryptoType: input.CryptoType,
		Address:    input.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionSystemWalletCreate, wallet)

	return wallet, nil
}

// UpdateSystemWalletInput represents input for rotating a system wallet
// address.
type UpdateSystemWalletInput struct {
	CryptoType domain.CryptoType
	Address    string
}

// UpdateSystemWallet rotates the address of the platform wallet for a
// crypto type.
func (uc *WalletUseCase) UpdateSystemWallet(ctx context.Context, input UpdateSystemWalletInput) (*domain.Wallet, error) {
	if input.Address == "" {
		return nil, domain.ErrInvalidWalletAddress
	}

	wallet, err := uc.walletRepo.GetSystemWallet(ctx, input.CryptoType)
	if err != nil {
		return nil, err
	}

	wallet.Address = input.Address
	wallet.UpdatedAt = time.Now().UTC()

	if err := uc.walletRepo.Update(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// DeleteSystemWallet removes the platform wallet for a crypto type.
// Deposits and investments in that currency fail with ErrNoSystemWallet
// until a replacement is created.
func (uc *WalletUseCase) DeleteSystemWallet(ctx context.Context, cryptoType domain.CryptoType) error {
	wallet, err := uc.walletRepo.GetSystemWallet(ctx, cryptoType)
	if err != nil {
		return err
	}
	return uc.walletRepo.Delete(ctx, wallet.ID)
}

// ListSystemWallets lists the platform wallets.
func (uc *WalletUseCase) ListSystemWallets(ctx context.Context) ([]*domain.Wallet, error) {
	return uc.walletRepo.ListSystem(ctx)
}

func (uc *WalletUseCase) audit(ctx context.Context, action domain.AuditAction, wallet *domain.Wallet) {
	if uc.auditRepo == nil {
		return
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "wallet",
		ResourceID:   wallet.ID,
		AfterState:   domain.MarshalState(wallet),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now(),
	}

	_ = uc.auditRepo.Create(ctx, auditLog)
}

// generateAddress produces a random 40-hex-char address.
func generateAddress() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(buf), nil
}
