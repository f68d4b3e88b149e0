package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

const userColumns = `id, name, email, hashed_password, phone_number, role,
	active_capital, return_on_investment, dormant_funds, trading_status,
	created_at, updated_at`

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.PhoneNumber,
		user.Role,
		decimalToNumeric(user.ActiveCapital),
		decimalToNumeric(user.ReturnOnInvestment),
		decimalToNumeric(user.DormantFunds),
		user.TradingStatus,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByIDForUpdate retrieves a user by ID with a FOR UPDATE lock. The
// lock serializes concurrent approvals touching the same user.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	return r.scanUser(pgxTx.QueryRow(ctx, query, id))
}

// ApplyBalanceDelta increments the balance columns in place. Increments
// commute, so concurrent approvals never lose updates.
func (r *UserRepository) ApplyBalanceDelta(ctx context.Context, tx usecase.Transaction, id string, delta domain.BalanceDelta, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE users
		SET active_capital = active_capital + $2,
		    return_on_investment = return_on_investment + $3,
		    dormant_funds = dormant_funds + $4,
		    trading_status = CASE WHEN $5 THEN 'ACTIVE' ELSE trading_status END,
		    updated_at = $6
		WHERE id = $1
	`

	cmd, err := pgxTx.Exec(ctx, query,
		id,
		decimalToNumeric(delta.ActiveCapital),
		decimalToNumeric(delta.ReturnOnInvestment),
		decimalToNumeric(delta.DormantFunds),
		delta.ActivateTrading,
		updatedAt,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// UpdateProfile updates a user's profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, phone_number = $3, updated_at = $4
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.PhoneNumber,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string, updatedAt time.Time) error {
	query := `UPDATE users SET hashed_password = $2, updated_at = $3 WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id, hashedPassword, updatedAt)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// List retrieves all users with pagination
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user                             domain.User
		activeCapital, roi, dormantFunds pgtype.Numeric
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.PhoneNumber,
		&user.Role,
		&activeCapital,
		&roi,
		&dormantFunds,
		&user.TradingStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	user.ActiveCapital = numericToDecimal(activeCapital)
	user.ReturnOnInvestment = numericToDecimal(roi)
	user.DormantFunds = numericToDecimal(dormantFunds)

	return &user, nil
}
