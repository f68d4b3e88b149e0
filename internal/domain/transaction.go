package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a money movement.
type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
	TypeInvestment TransactionType = "INVESTMENT"
)

// TransactionStatus is the approval state of a ledger entry.
// PENDING is the only non-terminal state.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusApproved TransactionStatus = "APPROVED"
	StatusRejected TransactionStatus = "REJECTED"
)

// CryptoType is a supported crypto currency.
type CryptoType string

const (
	CryptoBTC  CryptoType = "BTC"
	CryptoETH  CryptoType = "ETH"
	CryptoUSDT CryptoType = "USDT"
)

var validCryptoTypes = map[CryptoType]bool{
	CryptoBTC:  true,
	CryptoETH:  true,
	CryptoUSDT: true,
}

// IsValid checks if the crypto type is supported.
func (c CryptoType) IsValid() bool {
	return validCryptoTypes[c]
}

// Transaction is a single ledger entry: one money movement and its
// approval state. ExpectedProfit and MaturityDate are set iff the
// transaction is an investment.
type Transaction struct {
	ID             string
	UserID         string
	Type           TransactionType
	Status         TransactionStatus
	Amount         decimal.Decimal
	CryptoType     CryptoType
	WalletAddress  string
	PlanID         *string
	ExpectedProfit *decimal.Decimal
	MaturityDate   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks structural invariants of a new transaction.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !t.CryptoType.IsValid() {
		return ErrInvalidCryptoType
	}

	return nil
}

// IsPending reports whether the transaction can still be transitioned.
func (t *Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// BalanceDelta is the commutative effect of an approved transaction on
// a user's balance fields. Deltas are applied by the store as
// increments, never as read-then-overwrite.
type BalanceDelta struct {
	ActiveCapital      decimal.Decimal
	ReturnOnInvestment decimal.Decimal
	DormantFunds       decimal.Decimal
	ActivateTrading    bool
}

// IsZero reports whether the delta has no effect.
func (d BalanceDelta) IsZero() bool {
	return d.ActiveCapital.IsZero() && d.ReturnOnInvestment.IsZero() && d.DormantFunds.IsZero() && !d.ActivateTrading
}

// Volume aggregates approved transactions of one type.
type Volume struct {
	Count int64
	Total decimal.Decimal
}

// ApprovalDelta computes the balance effect of approving the
// transaction. Rejection has no balance effect.
func (t *Transaction) ApprovalDelta() BalanceDelta {
	switch t.Type {
	case TypeInvestment:
		profit := decimal.Zero
		if t.ExpectedProfit != nil {
			profit = *t.ExpectedProfit
		}

		return BalanceDelta{
			ActiveCapital:      t.Amount,
			ReturnOnInvestment: profit,
			ActivateTrading:    true,
		}
	case TypeWithdrawal:
		return BalanceDelta{DormantFunds: t.Amount.Neg()}
	case TypeDeposit:
		return BalanceDelta{DormantFunds: t.Amount}
	}

	return BalanceDelta{}
}
