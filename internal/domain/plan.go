package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanStatus is the lifecycle state of an investment plan.
type PlanStatus string

const (
	PlanActive   PlanStatus = "Active"
	PlanInactive PlanStatus = "Inactive"
	PlanOngoing  PlanStatus = "Ongoing"
)

var validPlanStatuses = map[PlanStatus]bool{
	PlanActive:   true,
	PlanInactive: true,
	PlanOngoing:  true,
}

// IsValid checks if the plan status is known.
func (s PlanStatus) IsValid() bool {
	return validPlanStatuses[s]
}

// PlanCategoryStandard is the default category for new plans.
const PlanCategoryStandard = "Standard"

// DurationUnit is the unit of a plan's term length.
type DurationUnit string

const (
	UnitDay    DurationUnit = "Day"
	UnitDays   DurationUnit = "Days"
	UnitWeek   DurationUnit = "Week"
	UnitWeeks  DurationUnit = "Weeks"
	UnitMonth  DurationUnit = "Month"
	UnitMonths DurationUnit = "Months"
)

var validDurationUnits = map[DurationUnit]bool{
	UnitDay: true, UnitDays: true,
	UnitWeek: true, UnitWeeks: true,
	UnitMonth: true, UnitMonths: true,
}

// IsValid checks if the duration unit is known.
func (u DurationUnit) IsValid() bool {
	return validDurationUnits[u]
}

// InvestmentPlan defines the terms an investment transaction is
// created against. Projections (profit, maturity) are computed at
// transaction creation; later plan edits never recompute them.
type InvestmentPlan struct {
	ID                string
	Name              string
	Interest          decimal.Decimal
	Duration          int
	DurationUnit      DurationUnit
	MinimumAmount     decimal.Decimal
	MaximumAmount     decimal.Decimal
	TradingCommission decimal.Decimal
	ReferralBonus     decimal.Decimal
	Category          string
	Status            PlanStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

var hundred = decimal.NewFromInt(100)

// Validate checks plan field invariants.
func (p *InvestmentPlan) Validate() error {
	if p.Name == "" {
		return ErrInvalidPlanName
	}

	if p.Interest.IsNegative() || p.Interest.GreaterThan(hundred) {
		return ErrInterestOutOfRange
	}

	if p.ReferralBonus.IsNegative() || p.ReferralBonus.GreaterThan(hundred) {
		return ErrReferralBonusOutOfRange
	}

	if p.Duration < 1 {
		return ErrInvalidDuration
	}

	if !p.DurationUnit.IsValid() {
		return ErrInvalidDuration
	}

	if p.MinimumAmount.IsNegative() || p.MaximumAmount.IsNegative() || p.TradingCommission.IsNegative() {
		return ErrNegativePlanAmount
	}

	if p.MinimumAmount.GreaterThan(p.MaximumAmount) {
		return ErrMinExceedsMax
	}

	if !p.Status.IsValid() {
		return ErrInvalidPlanStatus
	}

	return nil
}

// ValidateAmount checks an investment amount against the plan bounds.
func (p *InvestmentPlan) ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.LessThan(p.MinimumAmount) || amount.GreaterThan(p.MaximumAmount) {
		return ErrAmountOutOfRange
	}

	return nil
}

// ExpectedProfit computes amount * interest / 100.
func (p *InvestmentPlan) ExpectedProfit(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.Interest).Div(hundred)
}

// MaturityFrom computes the maturity date of an investment created at
// the given time.
func (p *InvestmentPlan) MaturityFrom(now time.Time) time.Time {
	switch p.DurationUnit {
	case UnitWeek, UnitWeeks:
		return now.AddDate(0, 0, p.Duration*7)
	case UnitMonth, UnitMonths:
		return now.AddDate(0, p.Duration, 0)
	default:
		return now.AddDate(0, 0, p.Duration)
	}
}
