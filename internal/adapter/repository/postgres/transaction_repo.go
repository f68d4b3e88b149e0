package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

const txnColumns = `id, user_id, type, status, amount, crypto_type,
	wallet_address, plan_id, expected_profit, maturity_date,
	created_at, updated_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a new transaction
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	return r.create(ctx, r.pool, txn)
}

// CreateTx inserts a new transaction within an open database transaction
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return r.create(ctx, tx.(*Tx).PgxTx(), txn)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *TransactionRepository) create(ctx context.Context, db execer, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + txnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var expectedProfit pgtype.Numeric
	if txn.ExpectedProfit != nil {
		expectedProfit = decimalToNumeric(*txn.ExpectedProfit)
	}

	_, err := db.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Type,
		txn.Status,
		decimalToNumeric(txn.Amount),
		txn.CryptoType,
		txn.WalletAddress,
		txn.PlanID,
		expectedProfit,
		txn.MaturityDate,
		txn.CreatedAt,
		txn.UpdatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// CompareAndSetStatus flips the status only when the stored status still
// equals from. Exactly one of two racing transitions sees a matched row.
func (r *TransactionRepository) CompareAndSetStatus(ctx context.Context, tx usecase.Transaction, id string, from, to domain.TransactionStatus, updatedAt time.Time) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE transactions
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`

	cmd, err := pgxTx.Exec(ctx, query, id, from, to, updatedAt)
	if err != nil {
		return false, err
	}

	return cmd.RowsAffected() == 1, nil
}

// ListByUser retrieves a user's transactions, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + txnColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.listTransactions(ctx, query, userID, limit, offset)
}

// List retrieves all transactions, newest first
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + txnColumns + `
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.listTransactions(ctx, query, limit, offset)
}

// ApprovedVolume sums the amounts of approved transactions of one type
func (r *TransactionRepository) ApprovedVolume(ctx context.Context, txType domain.TransactionType) (domain.Volume, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = $1 AND status = $2
	`

	var (
		volume domain.Volume
		total  pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, query, txType, domain.StatusApproved).Scan(&volume.Count, &total)
	if err != nil {
		return domain.Volume{}, err
	}

	volume.Total = numericToDecimal(total)

	return volume, nil
}

// RecomputeBalance folds the approval deltas of every approved
// transaction for the user. Used by ledger verification to check that
// the materialized balances are derivable from the ledger.
func (r *TransactionRepository) RecomputeBalance(ctx context.Context, userID string) (domain.BalanceDelta, error) {
	query := `
		SELECT ` + txnColumns + `
		FROM transactions
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID, domain.StatusApproved)
	if err != nil {
		return domain.BalanceDelta{}, err
	}
	defer rows.Close()

	var total domain.BalanceDelta
	for rows.Next() {
		txn, err := r.scanTransaction(rows)
		if err != nil {
			return domain.BalanceDelta{}, err
		}

		delta := txn.ApprovalDelta()
		total.ActiveCapital = total.ActiveCapital.Add(delta.ActiveCapital)
		total.ReturnOnInvestment = total.ReturnOnInvestment.Add(delta.ReturnOnInvestment)
		total.DormantFunds = total.DormantFunds.Add(delta.DormantFunds)
		total.ActivateTrading = total.ActivateTrading || delta.ActivateTrading
	}

	return total, rows.Err()
}

func (r *TransactionRepository) listTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn            domain.Transaction
		amount         pgtype.Numeric
		expectedProfit pgtype.Numeric
	)

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Type,
		&txn.Status,
		&amount,
		&txn.CryptoType,
		&txn.WalletAddress,
		&txn.PlanID,
		&expectedProfit,
		&txn.MaturityDate,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	if expectedProfit.Valid {
		profit := numericToDecimal(expectedProfit)
		txn.ExpectedProfit = &profit
	}

	return &txn, nil
}
