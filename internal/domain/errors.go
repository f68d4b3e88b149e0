package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidState        = errors.New("transaction is not pending")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient dormant funds")
	ErrInvalidCryptoType   = errors.New("unsupported crypto type")

	// Plan errors
	ErrPlanNotFound     = errors.New("investment plan not found")
	ErrPlanInactive     = errors.New("investment plan is not active")
	ErrDuplicatePlan    = errors.New("investment plan with this name already exists")
	ErrAmountOutOfRange = errors.New("amount outside plan bounds")

	// Wallet errors
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrNoSystemWallet        = errors.New("no system wallet for crypto type")
	ErrDuplicateSystemWallet = errors.New("system wallet for crypto type already exists")
	ErrDuplicateWalletName   = errors.New("wallet with this name already exists")
	ErrInvalidWalletName     = errors.New("wallet name is required")
	ErrInvalidWalletAddress  = errors.New("wallet address is required")

	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrSelfDeletion   = errors.New("cannot delete own account")
)
