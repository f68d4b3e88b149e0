package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinvest/coinvest/internal/domain"
)

const planColumns = `id, name, interest, duration, duration_unit,
	minimum_amount, maximum_amount, trading_commission, referral_bonus,
	category, status, created_at, updated_at`

// PlanRepository implements usecase.PlanRepository.
type PlanRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

// Create inserts a new investment plan
func (r *PlanRepository) Create(ctx context.Context, plan *domain.InvestmentPlan) error {
	query := `
		INSERT INTO investment_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.Name,
		decimalToNumeric(plan.Interest),
		plan.Duration,
		plan.DurationUnit,
		decimalToNumeric(plan.MinimumAmount),
		decimalToNumeric(plan.MaximumAmount),
		decimalToNumeric(plan.TradingCommission),
		decimalToNumeric(plan.ReferralBonus),
		plan.Category,
		plan.Status,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicatePlan
	}

	return err
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*domain.InvestmentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM investment_plans WHERE id = $1`

	return r.scanPlan(r.pool.QueryRow(ctx, query, id))
}

// GetByName retrieves a plan by its unique name
func (r *PlanRepository) GetByName(ctx context.Context, name string) (*domain.InvestmentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM investment_plans WHERE name = $1`

	return r.scanPlan(r.pool.QueryRow(ctx, query, name))
}

// Update stores the updated plan
func (r *PlanRepository) Update(ctx context.Context, plan *domain.InvestmentPlan) error {
	query := `
		UPDATE investment_plans
		SET name = $2, interest = $3, duration = $4, duration_unit = $5,
		    minimum_amount = $6, maximum_amount = $7, trading_commission = $8,
		    referral_bonus = $9, category = $10, status = $11, updated_at = $12
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.Name,
		decimalToNumeric(plan.Interest),
		plan.Duration,
		plan.DurationUnit,
		decimalToNumeric(plan.MinimumAmount),
		decimalToNumeric(plan.MaximumAmount),
		decimalToNumeric(plan.TradingCommission),
		decimalToNumeric(plan.ReferralBonus),
		plan.Category,
		plan.Status,
		plan.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicatePlan
	}
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

// Delete removes a plan
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM investment_plans WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

// List retrieves plans with pagination
func (r *PlanRepository) List(ctx context.Context, limit, offset int) ([]*domain.InvestmentPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM investment_plans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.InvestmentPlan
	for rows.Next() {
		plan, err := r.scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (r *PlanRepository) scanPlan(row pgx.Row) (*domain.InvestmentPlan, error) {
	var (
		plan                             domain.InvestmentPlan
		interest, minAmount, maxAmount   pgtype.Numeric
		tradingCommission, referralBonus pgtype.Numeric
	)

	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&interest,
		&plan.Duration,
		&plan.DurationUnit,
		&minAmount,
		&maxAmount,
		&tradingCommission,
		&referralBonus,
		&plan.Category,
		&plan.Status,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}

		return nil, err
	}

	plan.Interest = numericToDecimal(interest)
	plan.MinimumAmount = numericToDecimal(minAmount)
	plan.MaximumAmount = numericToDecimal(maxAmount)
	plan.TradingCommission = numericToDecimal(tradingCommission)
	plan.ReferralBonus = numericToDecimal(referralBonus)

	return &plan, nil
}
