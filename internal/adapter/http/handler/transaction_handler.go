package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateInvestment(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Transaction, error)
	RequestWithdrawal(ctx context.Context, input usecase.RequestWithdrawalInput) (*domain.Transaction, error)
	CreateDeposit(ctx context.Context, input usecase.CreateDepositInput) (*domain.Transaction, error)
	Approve(ctx context.Context, id string) (*domain.Transaction, error)
	Reject(ctx context.Context, id string) (*domain.Transaction, error)
	CreateAdjustment(ctx context.Context, input usecase.CreateAdjustmentInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, input usecase.ListByUserInput) ([]*domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	InvestmentVolume(ctx context.Context) (domain.Volume, error)
}

// TransactionHandler handles ledger endpoints.
type TransactionHandler struct {
	txnUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txnUC TransactionService) *TransactionHandler {
	return &TransactionHandler{txnUC: txnUC}
}

// Invest files a pending investment against a plan.
func (h *TransactionHandler) Invest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.InvestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	txn, err := h.txnUC.CreateInvestment(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Withdraw files a pending withdrawal to one of the user's wallets.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}

	txn, err := h.txnUC.RequestWithdrawal(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Deposit files a pending deposit claim.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if !decodeBody(w, r, &req) {
		return
	}

	txn, err := h.txnUC.CreateDeposit(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// ListMine lists the authenticated user's transactions.
func (h *TransactionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	txns, err := h.txnUC.ListByUser(r.Context(), usecase.ListByUserInput{
		UserID: actor.ID,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// Get retrieves a transaction. Users see only their own entries; admins
// see everything.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "INVALID_REQUEST")
		return
	}

	txn, err := h.txnUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if txn.UserID != actor.ID && !actor.Role.IsAdmin() {
		writeDomainError(w, domain.ErrTransactionNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List lists all transactions (admin).
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txns, err := h.txnUC.List(r.Context(),
		parseIntQuery(r, "limit", 20),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// Volume returns the approved investment volume (admin).
func (h *TransactionHandler) Volume(w http.ResponseWriter, r *http.Request) {
	volume, err := h.txnUC.InvestmentVolume(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VolumeFromDomain(&volume))
}

// Approve transitions a pending transaction to APPROVED (admin).
func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "INVALID_REQUEST")
		return
	}

	txn, err := h.txnUC.Approve(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Reject transitions a pending transaction to REJECTED (admin).
func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "INVALID_REQUEST")
		return
	}

	txn, err := h.txnUC.Reject(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// CreateAdjustment applies an admin balance adjustment as an approved
// ledger entry.
func (h *TransactionHandler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "INVALID_REQUEST")
		return
	}

	var req dto.AdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	txn, err := h.txnUC.CreateAdjustment(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}
