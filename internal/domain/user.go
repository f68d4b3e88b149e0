package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TradingStatus tells whether a user has capital actively invested.
type TradingStatus string

const (
	TradingDormant TradingStatus = "DORMANT"
	TradingActive  TradingStatus = "ACTIVE"
)

// User represents a platform user. The balance fields are a
// materialized view over the user's approved transactions and are
// mutated only through balance deltas applied by the store.
type User struct {
	ID                 string
	Name               string
	Email              string
	HashedPassword     string
	PhoneNumber        string
	Role               Role
	ActiveCapital      decimal.Decimal
	ReturnOnInvestment decimal.Decimal
	DormantFunds       decimal.Decimal
	TradingStatus      TradingStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin can approve transactions and manage plans, system
	// wallets and users
	RoleAdmin Role = "admin"

	// RoleUser can create wallets, investments and withdrawal requests
	RoleUser Role = "user"
)

// Valid roles
var validRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsAdmin checks if the role carries the admin capability
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrAdminRequired = errors.New("admin role required")
)

type contextKey string

const userContextKey contextKey = "user"

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
