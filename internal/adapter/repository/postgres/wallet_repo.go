package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinvest/coinvest/internal/domain"
)

const walletColumns = `id, user_id, name, crypto_type, address, created_at, updated_at`

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.Name,
		wallet.CryptoType,
		wallet.Address,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)
	if isUniqueViolation(err) {
		if wallet.IsSystem() {
			return domain.ErrDuplicateSystemWallet
		}
		return domain.ErrDuplicateWalletName
	}

	return err
}

// GetByID retrieves a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, id), domain.ErrWalletNotFound)
}

// GetUserWalletByName retrieves a user's wallet by name
func (r *WalletRepository) GetUserWalletByName(ctx context.Context, userID, name string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND name = $2`

	return r.scanWallet(r.pool.QueryRow(ctx, query, userID, name), domain.ErrWalletNotFound)
}

// GetSystemWallet retrieves the platform wallet for a crypto type
func (r *WalletRepository) GetSystemWallet(ctx context.Context, cryptoType domain.CryptoType) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id IS NULL AND crypto_type = $1`

	return r.scanWallet(r.pool.QueryRow(ctx, query, cryptoType), domain.ErrNoSystemWallet)
}

// ListByUser retrieves a user's wallets
func (r *WalletRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return r.listWallets(ctx, query, userID)
}

// ListSystem retrieves all platform wallets
func (r *WalletRepository) ListSystem(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE user_id IS NULL
		ORDER BY crypto_type
	`

	return r.listWallets(ctx, query)
}

// Update stores the updated wallet
func (r *WalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, address = $3, updated_at = $4
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		wallet.ID,
		wallet.Name,
		wallet.Address,
		wallet.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// Delete removes a wallet
func (r *WalletRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM wallets WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

func (r *WalletRepository) listWallets(ctx context.Context, query string, args ...any) ([]*domain.Wallet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := r.scanWallet(rows, domain.ErrWalletNotFound)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

func (r *WalletRepository) scanWallet(row pgx.Row, notFound error) (*domain.Wallet, error) {
	var wallet domain.Wallet

	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Name,
		&wallet.CryptoType,
		&wallet.Address,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}

		return nil, err
	}

	return &wallet, nil
}
