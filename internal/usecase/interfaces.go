package usecase

import (
	"context"
	"time"

	"github.com/coinvest/coinvest/internal/domain"
)

// UserRepository defines data access for users and their balances.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.User, error)
	// ApplyBalanceDelta increments the balance columns in place. Deltas
	// commute, so concurrent approvals for the same user never lose updates.
	ApplyBalanceDelta(ctx context.Context, tx Transaction, id string, delta domain.BalanceDelta, updatedAt time.Time) error
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, hashedPassword string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// PlanRepository defines data access for investment plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.InvestmentPlan) error
	GetByID(ctx context.Context, id string) (*domain.InvestmentPlan, error)
	GetByName(ctx context.Context, name string) (*domain.InvestmentPlan, error)
	Update(ctx context.Context, plan *domain.InvestmentPlan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.InvestmentPlan, error)
}

// WalletRepository defines data access for user and system wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetUserWalletByName(ctx context.Context, userID, name string) (*domain.Wallet, error)
	// GetSystemWallet returns the wallet with no owner for the given
	// crypto type, or domain.ErrNoSystemWallet.
	GetSystemWallet(ctx context.Context, cryptoType domain.CryptoType) (*domain.Wallet, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Wallet, error)
	ListSystem(ctx context.Context) ([]*domain.Wallet, error)
	Update(ctx context.Context, wallet *domain.Wallet) error
	Delete(ctx context.Context, id string) error
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// CompareAndSetStatus flips the status only when the stored status
	// still equals from. Returns false when the guard did not match, so
	// exactly one of two racing transitions can succeed.
	CompareAndSetStatus(ctx context.Context, tx Transaction, id string, from, to domain.TransactionStatus, updatedAt time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	// ApprovedVolume sums the amounts of approved transactions of the
	// given type across all users.
	ApprovedVolume(ctx context.Context, txType domain.TransactionType) (domain.Volume, error)
	// RecomputeBalance folds the approval deltas of every approved
	// transaction for the user, for consistency verification.
	RecomputeBalance(ctx context.Context, userID string) (domain.BalanceDelta, error)
}

// NotificationRepository defines data access for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	// ListByUser returns the user's notifications plus broadcasts.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkAllRead(ctx context.Context) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient database failures
// (serialization conflicts, deadlocks).
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
