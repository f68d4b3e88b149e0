package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// PlanCacheTTL is how long cached investment plans stay fresh.
	// Mutations invalidate eagerly, the TTL is a backstop.
	PlanCacheTTL = 5 * time.Minute
)
