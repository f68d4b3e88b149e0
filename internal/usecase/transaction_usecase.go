package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/infrastructure/metrics"
)

// TransactionUseCase drives the ledger state machine: users file PENDING
// transactions, admins flip them to APPROVED or REJECTED, approval
// applies the balance delta in the same database transaction.
type TransactionUseCase struct {
	txManager  TransactionManager
	txnRepo    TransactionRepository
	userRepo   UserRepository
	planRepo   PlanRepository
	walletRepo WalletRepository
	notifRepo  NotificationRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

func NewTransactionUseCase(
	txManager TransactionManager,
	txnRepo TransactionRepository,
	userRepo UserRepository,
	planRepo PlanRepository,
	walletRepo WalletRepository,
	notifRepo NotificationRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:  txManager,
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		planRepo:   planRepo,
		walletRepo: walletRepo,
		notifRepo:  notifRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		retrier:    retrier,
		metrics:    metrics,
	}
}

// CreateInvestmentInput represents input for filing an investment request.
type CreateInvestmentInput struct {
	UserID     string
	PlanID     string
	Amount     decimal.Decimal
	CryptoType domain.CryptoType
}

// CreateInvestment files a PENDING investment transaction. The profit and
// maturity projections are computed from the plan as it exists now and
// frozen into the transaction; later plan edits do not touch them.
func (uc *TransactionUseCase) CreateInvestment(ctx context.Context, input CreateInvestmentInput) (*domain.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.CryptoType.IsValid() {
		return nil, domain.ErrInvalidCryptoType
	}

	plan, err := uc.planRepo.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanActive {
		return nil, domain.ErrPlanInactive
	}
	if err := plan.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	// Funds move to the platform wallet for the chosen currency.
	systemWallet, err := uc.walletRepo.GetSystemWallet(ctx, input.CryptoType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profit := plan.ExpectedProfit(input.Amount)
	maturity := plan.MaturityFrom(now)

	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		UserID:         input.UserID,
		Type:           domain.TypeInvestment,
		Status:         domain.StatusPending,
		Amount:         input.Amount,
		CryptoType:     input.CryptoType,
		WalletAddress:  systemWallet.Address,
		PlanID:         &plan.ID,
		ExpectedProfit: &profit,
		MaturityDate:   &maturity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(domain.TypeInvestment)).Inc()
	}

	uc.notifyFiled(ctx, txn, fmt.Sprintf("New investment request for plan %q", plan.Name))

	return txn, nil
}

// RequestWithdrawalInput represents input for filing a withdrawal request.
type RequestWithdrawalInput struct {
	UserID   string
	WalletID string
	Amount   decimal.Decimal
}

// RequestWithdrawal files a PENDING withdrawal against one of the user's
// own wallets. Sufficiency is checked here for fast feedback and checked
// again under a row lock at approval time.
func (uc *TransactionUseCase) RequestWithdrawal(ctx context.Context, input RequestWithdrawalInput) (*domain.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	wallet, err := uc.walletRepo.GetByID(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}
	if !wallet.OwnedBy(input.UserID) {
		return nil, domain.ErrWalletNotFound
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.DormantFunds.LessThan(input.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		Type:          domain.TypeWithdrawal,
		Status:        domain.StatusPending,
		Amount:        input.Amount,
		CryptoType:    wallet.CryptoType,
		WalletAddress: wallet.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(domain.TypeWithdrawal)).Inc()
	}

	uc.notifyFiled(ctx, txn, "New withdrawal request")

	return txn, nil
}

// CreateDepositInput represents input for filing a deposit claim.
type CreateDepositInput struct {
	UserID     string
	Amount     decimal.Decimal
	CryptoType domain.CryptoType
}

// CreateDeposit files a PENDING deposit claim. Approval credits the
// user's dormant funds.
func (uc *TransactionUseCase) CreateDeposit(ctx context.Context, input CreateDepositInput) (*domain.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.CryptoType.IsValid() {
		return nil, domain.ErrInvalidCryptoType
	}

	systemWallet, err := uc.walletRepo.GetSystemWallet(ctx, input.CryptoType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		Type:          domain.TypeDeposit,
		Status:        domain.StatusPending,
		Amount:        input.Amount,
		CryptoType:    input.CryptoType,
		WalletAddress: systemWallet.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(domain.TypeDeposit)).Inc()
	}

	uc.notifyFiled(ctx, txn, "New deposit claim")

	return txn, nil
}

// Approve transitions a PENDING transaction to APPROVED and applies its
// balance delta, all in one database transaction. Of two concurrent
// approvals exactly one succeeds; the loser gets ErrInvalidState.
func (uc *TransactionUseCase) Approve(ctx context.Context, id string) (*domain.Transaction, error) {
	start := time.Now()

	var approved *domain.Transaction
	op := func() error {
		txn, err := uc.transition(ctx, id, domain.StatusApproved)
		if err != nil {
			return err
		}
		approved = txn
		return nil
	}

	if err := uc.retry(ctx, op); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsApproved.Inc()
		uc.metrics.TransitionDuration.Observe(time.Since(start).Seconds())
	}

	uc.notifyTransition(ctx, approved)

	return approved, nil
}

// Reject transitions a PENDING transaction to REJECTED. No balance
// effect.
func (uc *TransactionUseCase) Reject(ctx context.Context, id string) (*domain.Transaction, error) {
	start := time.Now()

	var rejected *domain.Transaction
	op := func() error {
		txn, err := uc.transition(ctx, id, domain.StatusRejected)
		if err != nil {
			return err
		}
		rejected = txn
		return nil
	}

	if err := uc.retry(ctx, op); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsRejected.Inc()
		uc.metrics.TransitionDuration.Observe(time.Since(start).Seconds())
	}

	uc.notifyTransition(ctx, rejected)

	return rejected, nil
}

func (uc *TransactionUseCase) transition(ctx context.Context, id string, to domain.TransactionStatus) (*domain.Transaction, error) {
	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.txnRepo.GetByID(txCtx, id)
	if err != nil {
		return nil, err
	}
	if !txn.IsPending() {
		return nil, domain.ErrInvalidState
	}

	now := time.Now().UTC()
	delta := txn.ApprovalDelta()

	if to == domain.StatusApproved {
		// Lock the user row so the sufficiency check and the balance
		// increments observe the same state.
		user, err := uc.userRepo.GetByIDForUpdate(txCtx, tx, txn.UserID)
		if err != nil {
			return nil, err
		}

		if txn.Type == domain.TypeWithdrawal && user.DormantFunds.LessThan(txn.Amount) {
			return nil, domain.ErrInsufficientFunds
		}
	}

	swapped, err := uc.txnRepo.CompareAndSetStatus(txCtx, tx, id, domain.StatusPending, to, now)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// A concurrent transition won the race after our read.
		return nil, domain.ErrInvalidState
	}

	if to == domain.StatusApproved && !delta.IsZero() {
		if err := uc.userRepo.ApplyBalanceDelta(txCtx, tx, txn.UserID, delta, now); err != nil {
			return nil, err
		}
	}

	before := *txn
	txn.Status = to
	txn.UpdatedAt = now

	if uc.auditRepo != nil {
		userID := "system"
		if user, ok := domain.UserFromContext(ctx); ok {
			userID = user.ID
		}

		action := domain.AuditActionTransactionApprove
		if to == domain.StatusRejected {
			action = domain.AuditActionTransactionReject
		}

		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       userID,
			Action:       string(action),
			ResourceType: "transaction",
			ResourceID:   txn.ID,
			BeforeState:  domain.MarshalState(before),
			AfterState:   domain.MarshalState(txn),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    time.Now(),
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return txn, nil
}

// CreateAdjustmentInput represents input for an admin balance adjustment.
type CreateAdjustmentInput struct {
	UserID     string
	Amount     decimal.Decimal // signed; negative debits dormant funds
	CryptoType domain.CryptoType
	Reason     string
}

// CreateAdjustment corrects a user's dormant funds by writing an
// already-APPROVED ledger entry and applying its delta in one database
// transaction. The balance stays derivable from the approved ledger;
// there is no way to overwrite balance fields directly.
func (uc *TransactionUseCase) CreateAdjustment(ctx context.Context, input CreateAdjustmentInput) (*domain.Transaction, error) {
	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.CryptoType.IsValid() {
		return nil, domain.ErrInvalidCryptoType
	}

	txType := domain.TypeDeposit
	amount := input.Amount
	if amount.IsNegative() {
		txType = domain.TypeWithdrawal
		amount = amount.Neg()
	}

	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	user, err := uc.userRepo.GetByIDForUpdate(txCtx, tx, input.UserID)
	if err != nil {
		return nil, err
	}

	if txType == domain.TypeWithdrawal && user.DormantFunds.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:         uc.idGen.Generate(),
		UserID:     input.UserID,
		Type:       txType,
		Status:     domain.StatusApproved,
		Amount:     amount,
		CryptoType: input.CryptoType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.txnRepo.CreateTx(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.userRepo.ApplyBalanceDelta(txCtx, tx, input.UserID, txn.ApprovalDelta(), now); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		adminID := "system"
		if admin, ok := domain.UserFromContext(ctx); ok {
			adminID = admin.ID
		}

		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       adminID,
			Action:       string(domain.AuditActionAdjustmentCreate),
			ResourceType: "transaction",
			ResourceID:   txn.ID,
			AfterState:   domain.MarshalState(map[string]any{"transaction": txn, "reason": input.Reason}),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    time.Now(),
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdjustmentsCreated.Inc()
	}

	uc.emit(ctx, &domain.Notification{
		Title:   "Balance adjusted",
		Message: fmt.Sprintf("Your balance was adjusted by %s %s.", input.Amount.String(), txn.CryptoType),
		Type:    domain.NotifyInfo,
		UserID:  &input.UserID,
	})

	return txn, nil
}

// GetTransaction returns a single transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListByUserInput represents input for listing a user's transactions.
type ListByUserInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListByUser returns the user's transactions, newest first.
func (uc *TransactionUseCase) ListByUser(ctx context.Context, input ListByUserInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.txnRepo.ListByUser(ctx, input.UserID, limit, offset)
}

// List returns all transactions, newest first (admin).
func (uc *TransactionUseCase) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.txnRepo.List(ctx, limit, offset)
}

// InvestmentVolume returns the total approved investment volume (admin
// dashboard figure).
func (uc *TransactionUseCase) InvestmentVolume(ctx context.Context) (domain.Volume, error) {
	return uc.txnRepo.ApprovedVolume(ctx, domain.TypeInvestment)
}

func (uc *TransactionUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

// notifyFiled broadcasts a new PENDING request to admins.
func (uc *TransactionUseCase) notifyFiled(ctx context.Context, txn *domain.Transaction, title string) {
	uc.emit(ctx, &domain.Notification{
		Title:   title,
		Message: fmt.Sprintf("%s of %s %s awaits review.", txnTypeLabel(txn.Type), txn.Amount.String(), txn.CryptoType),
		Type:    domain.NotifyInfo,
		Link:    "/admin/transactions",
	})
}

// notifyTransition tells the owner about a committed transition.
func (uc *TransactionUseCase) notifyTransition(ctx context.Context, txn *domain.Transaction) {
	label := txnTypeLabel(txn.Type)

	n := &domain.Notification{
		Title:   fmt.Sprintf("%s approved", label),
		Message: fmt.Sprintf("Your %s of %s %s has been approved.", txnTypeLabelLower(txn.Type), txn.Amount.String(), txn.CryptoType),
		Type:    domain.NotifySuccess,
		UserID:  &txn.UserID,
	}
	if txn.Status == domain.StatusRejected {
		n.Title = fmt.Sprintf("%s rejected", label)
		n.Message = fmt.Sprintf("Your %s of %s %s has been rejected.", txnTypeLabelLower(txn.Type), txn.Amount.String(), txn.CryptoType)
		n.Type = domain.NotifyWarning
	}

	uc.emit(ctx, n)
}

// emit persists a notification after the fact. Emission failure is
// logged and swallowed; it never unwinds a committed transition.
func (uc *TransactionUseCase) emit(ctx context.Context, n *domain.Notification) {
	if uc.notifRepo == nil {
		return
	}

	n.ID = uc.idGen.Generate()
	n.CreatedAt = time.Now().UTC()

	if err := uc.notifRepo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("title", n.Title).Msg("failed to emit notification")
		return
	}

	if uc.metrics != nil {
		uc.metrics.NotificationsEmitted.Inc()
	}
}

func txnTypeLabel(t domain.TransactionType) string {
	switch t {
	case domain.TypeInvestment:
		return "Investment"
	case domain.TypeWithdrawal:
		return "Withdrawal"
	case domain.TypeDeposit:
		return "Deposit"
	}
	return "Transaction"
}

func txnTypeLabelLower(t domain.TransactionType) string {
	switch t {
	case domain.TypeInvestment:
		return "investment"
	case domain.TypeWithdrawal:
		return "withdrawal"
	case domain.TypeDeposit:
		return "deposit"
	}
	return "transaction"
}
