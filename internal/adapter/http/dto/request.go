package dto

import (
	"github.com/shopspring/decimal"

	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		PhoneNumber: r.PhoneNumber,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// UpdateProfileRequest represents a profile edit. Omitted fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		ID:          userID,
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
	}
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ToUseCaseInput converts to use case input.
func (r *ChangePasswordRequest) ToUseCaseInput(userID string) usecase.ChangePasswordInput {
	return usecase.ChangePasswordInput{
		ID:              userID,
		CurrentPassword: r.CurrentPassword,
		NewPassword:     r.NewPassword,
	}
}

// PlanRequest represents a request to create or update an investment
// plan.
type PlanRequest struct {
	Name              string          `json:"name"`
	Interest          decimal.Decimal `json:"interest"`
	Duration          int             `json:"duration"`
	DurationUnit      string          `json:"duration_unit"`
	MinimumAmount     decimal.Decimal `json:"minimum_amount"`
	MaximumAmount     decimal.Decimal `json:"maximum_amount"`
	TradingCommission decimal.Decimal `json:"trading_commission"`
	ReferralBonus     decimal.Decimal `json:"referral_bonus"`
	Category          string          `json:"category,omitempty"`
	Status            string          `json:"status,omitempty"`
}

// ToDomain converts to a domain plan.
func (r *PlanRequest) ToDomain() domain.InvestmentPlan {
	return domain.InvestmentPlan{
		Name:              r.Name,
		Interest:          r.Interest,
		Duration:          r.Duration,
		DurationUnit:      domain.DurationUnit(r.DurationUnit),
		MinimumAmount:     r.MinimumAmount,
		MaximumAmount:     r.MaximumAmount,
		TradingCommission: r.TradingCommission,
		ReferralBonus:     r.ReferralBonus,
		Category:          r.Category,
		Status:            domain.PlanStatus(r.Status),
	}
}

// CreateWalletRequest represents a request to create a user wallet.
type CreateWalletRequest struct {
	Name       string `json:"name"`
	CryptoType string `json:"crypto_type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput(userID string) usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		UserID:     userID,
		Name:       r.Name,
		CryptoType: domain.CryptoType(r.CryptoType),
	}
}

// SystemWalletRequest represents a request to create or rotate a system
// wallet.
type SystemWalletRequest struct {
	CryptoType string `json:"crypto_type"`
	Address    string `json:"address"`
}

// InvestRequest represents a request to file an investment.
type InvestRequest struct {
	PlanID     string          `json:"plan_id"`
	Amount     decimal.Decimal `json:"amount"`
	CryptoType string          `json:"crypto_type"`
}

// ToUseCaseInput converts to use case input.
func (r *InvestRequest) ToUseCaseInput(userID string) usecase.CreateInvestmentInput {
	return usecase.CreateInvestmentInput{
		UserID:     userID,
		PlanID:     r.PlanID,
		Amount:     r.Amount,
		CryptoType: domain.CryptoType(r.CryptoType),
	}
}

// WithdrawRequest represents a request to file a withdrawal.
type WithdrawRequest struct {
	WalletID string          `json:"wallet_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput(userID string) usecase.RequestWithdrawalInput {
	return usecase.RequestWithdrawalInput{
		UserID:   userID,
		WalletID: r.WalletID,
		Amount:   r.Amount,
	}
}

// DepositRequest represents a request to file a deposit claim.
type DepositRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CryptoType string          `json:"crypto_type"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(userID string) usecase.CreateDepositInput {
	return usecase.CreateDepositInput{
		UserID:     userID,
		Amount:     r.Amount,
		CryptoType: domain.CryptoType(r.CryptoType),
	}
}

// AdjustmentRequest represents an admin balance adjustment. A negative
// amount debits dormant funds.
type AdjustmentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CryptoType string          `json:"crypto_type"`
	Reason     string          `json:"reason,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustmentRequest) ToUseCaseInput(userID string) usecase.CreateAdjustmentInput {
	return usecase.CreateAdjustmentInput{
		UserID:     userID,
		Amount:     r.Amount,
		CryptoType: domain.CryptoType(r.CryptoType),
		Reason:     r.Reason,
	}
}
