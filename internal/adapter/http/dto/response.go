package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// UserResponse represents a user in API responses. The password hash is
// never serialized.
type UserResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	PhoneNumber        string          `json:"phone_number,omitempty"`
	Role               string          `json:"role"`
	ActiveCapital      decimal.Decimal `json:"active_capital"`
	ReturnOnInvestment decimal.Decimal `json:"return_on_investment"`
	DormantFunds       decimal.Decimal `json:"dormant_funds"`
	TradingStatus      string          `json:"trading_status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		PhoneNumber:        u.PhoneNumber,
		Role:               string(u.Role),
		ActiveCapital:      u.ActiveCapital,
		ReturnOnInvestment: u.ReturnOnInvestment,
		DormantFunds:       u.DormantFunds,
		TradingStatus:      string(u.TradingStatus),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// UsersFromDomain converts a slice of domain users.
func UsersFromDomain(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserFromDomain(u))
	}
	return out
}

// AuthResponse carries the issued token and the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// OverviewResponse is the dashboard balance summary.
type OverviewResponse struct {
	ActiveCapital      decimal.Decimal `json:"active_capital"`
	ReturnOnInvestment decimal.Decimal `json:"return_on_investment"`
	DormantFunds       decimal.Decimal `json:"dormant_funds"`
	TotalBalance       decimal.Decimal `json:"total_balance"`
	TradingStatus      string          `json:"trading_status"`
}

// OverviewFromDomain converts an account overview to a response.
func OverviewFromDomain(o *usecase.AccountOverview) OverviewResponse {
	return OverviewResponse{
		ActiveCapital:      o.ActiveCapital,
		ReturnOnInvestment: o.ReturnOnInvestment,
		DormantFunds:       o.DormantFunds,
		TotalBalance:       o.TotalBalance,
		TradingStatus:      string(o.TradingStatus),
	}
}

// PlanResponse represents an investment plan in API responses.
type PlanResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Interest          decimal.Decimal `json:"interest"`
	Duration          int             `json:"duration"`
	DurationUnit      string          `json:"duration_unit"`
	MinimumAmount     decimal.Decimal `json:"minimum_amount"`
	MaximumAmount     decimal.Decimal `json:"maximum_amount"`
	TradingCommission decimal.Decimal `json:"trading_commission"`
	ReferralBonus     decimal.Decimal `json:"referral_bonus"`
	Category          string          `json:"category"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PlanFromDomain converts a domain plan to a response.
func PlanFromDomain(p *domain.InvestmentPlan) PlanResponse {
	return PlanResponse{
		ID:                p.ID,
		Name:              p.Name,
		Interest:          p.Interest,
		Duration:          p.Duration,
		DurationUnit:      string(p.DurationUnit),
		MinimumAmount:     p.MinimumAmount,
		MaximumAmount:     p.MaximumAmount,
		TradingCommission: p.TradingCommission,
		ReferralBonus:     p.ReferralBonus,
		Category:          p.Category,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// PlansFromDomain converts a slice of domain plans.
func PlansFromDomain(plans []*domain.InvestmentPlan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanFromDomain(p))
	}
	return out
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"user_id,omitempty"`
	Name       string    `json:"name"`
	CryptoType string    `json:"crypto_type"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:         w.ID,
		UserID:     w.UserID,
		Name:       w.Name,
		CryptoType: string(w.CryptoType),
		Address:    w.Address,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

// WalletsFromDomain converts a slice of domain wallets.
func WalletsFromDomain(wallets []*domain.Wallet) []WalletResponse {
	out := make([]WalletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, WalletFromDomain(w))
	}
	return out
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	Type           string           `json:"type"`
	Status         string           `json:"status"`
	Amount         decimal.Decimal  `json:"amount"`
	CryptoType     string           `json:"crypto_type"`
	WalletAddress  string           `json:"wallet_address,omitempty"`
	PlanID         *string          `json:"plan_id,omitempty"`
	ExpectedProfit *decimal.Decimal `json:"expected_profit,omitempty"`
	MaturityDate   *time.Time       `json:"maturity_date,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		UserID:         t.UserID,
		Type:           string(t.Type),
		Status:         string(t.Status),
		Amount:         t.Amount,
		CryptoType:     string(t.CryptoType),
		WalletAddress:  t.WalletAddress,
		PlanID:         t.PlanID,
		ExpectedProfit: t.ExpectedProfit,
		MaturityDate:   t.MaturityDate,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// TransactionsFromDomain converts a slice of domain transactions.
func TransactionsFromDomain(txns []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, TransactionFromDomain(t))
	}
	return out
}

// VolumeResponse aggregates approved investment volume.
type VolumeResponse struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// VolumeFromDomain converts a domain volume to a response.
func VolumeFromDomain(v *domain.Volume) VolumeResponse {
	return VolumeResponse{Count: v.Count, Total: v.Total}
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Type      string    `json:"type"`
	UserID    *string   `json:"user_id,omitempty"`
	Read      bool      `json:"read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationFromDomain converts a domain notification to a response.
func NotificationFromDomain(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		UserID:    n.UserID,
		Read:      n.Read,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationsFromDomain converts a slice of domain notifications.
func NotificationsFromDomain(notifs []*domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, NotificationFromDomain(n))
	}
	return out
}

// UnreadCountResponse carries the unread notification count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
