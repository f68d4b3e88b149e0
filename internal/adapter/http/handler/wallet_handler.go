package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	GetUserWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error)
	ListUserWallets(ctx context.Context, userID string) ([]*domain.Wallet, error)
	DeleteUserWallet(ctx context.Context, userID, walletID string) error
	CreateSystemWallet(ctx context.Context, input usecase.CreateSystemWalletInput) (*domain.Wallet, error)
	UpdateSystemWallet(ctx context.Context, input usecase.UpdateSystemWalletInput) (*domain.Wallet, error)
	DeleteSystemWallet(ctx context.Context, cryptoType domain.CryptoType) error
	ListSystemWallets(ctx context.Context) ([]*domain.Wallet, error)
}

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Create registers a wallet for the authenticated user.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateWalletRequest
	if !decodeBody(w, r, &req) {
		return
	}

	wallet, err := h.walletUC.CreateWallet(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// Get retrieves one of the authenticated user's wallets.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "INVALID_REQUEST")
		return
	}

	wallet, err := h.walletUC.GetUserWallet(r.Context(), actor.ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// List lists the authenticated user's wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	wallets, err := h.walletUC.ListUserWallets(r.Context(), actor.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(wallets))
}

// Delete removes one of the authenticated user's wallets.
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "INVALID_REQUEST")
		return
	}

	if err := h.walletUC.DeleteUserWallet(r.Context(), actor.ID, id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "wallet deleted"})
}

// ListSystem lists platform deposit addresses. Available to any
// authenticated user so the deposit screen can show where to send funds.
func (h *WalletHandler) ListSystem(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.walletUC.ListSystemWallets(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(wallets))
}

// CreateSystem registers the platform wallet for a crypto type (admin).
func (h *WalletHandler) CreateSystem(w http.ResponseWriter, r *http.Request) {
	var req dto.SystemWalletRequest
	if !decodeBody(w, r, &req) {
		return
	}

	wallet, err := h.walletUC.CreateSystemWallet(r.Context(), usecase.CreateSystemWalletInput{
		CryptoType: domain.CryptoType(req.CryptoType),
		Address:    req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// UpdateSystem rotates the platform wallet address for a crypto type
// (admin).
func (h *WalletHandler) UpdateSystem(w http.ResponseWriter, r *http.Request) {
	cryptoType := chi.URLParam(r, "cryptoType")

	var req dto.SystemWalletRequest
	if !decodeBody(w, r, &req) {
		return
	}

	wallet, err := h.walletUC.UpdateSystemWallet(r.Context(), usecase.UpdateSystemWalletInput{
		CryptoType: domain.CryptoType(cryptoType),
		Address:    req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// DeleteSystem removes the platform wallet for a crypto type (admin).
func (h *WalletHandler) DeleteSystem(w http.ResponseWriter, r *http.Request) {
	cryptoType := chi.URLParam(r, "cryptoType")

	if err := h.walletUC.DeleteSystemWallet(r.Context(), domain.CryptoType(cryptoType)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "system wallet deleted"})
}
