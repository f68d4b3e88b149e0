package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidPlanName         = errors.New("invalid plan name")
	ErrInterestOutOfRange      = errors.New("interest must be between 0 and 100")
	ErrReferralBonusOutOfRange = errors.New("referral bonus must be between 0 and 100")
	ErrInvalidDuration         = errors.New("invalid plan duration")
	ErrNegativePlanAmount      = errors.New("plan amounts must be non-negative")
	ErrMinExceedsMax           = errors.New("minimum amount cannot exceed maximum amount")
	ErrInvalidPlanStatus       = errors.New("invalid plan status")
	ErrInvalidEmail            = errors.New("invalid email format")
	ErrPasswordTooWeak         = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxNameLength     = 255
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
