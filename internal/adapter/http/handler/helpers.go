package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
)

// writeJSON writes a success envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.Response{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// writeDomainError maps a domain error to an HTTP response. Unknown
// errors become an opaque 500 so internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal server error", "INTERNAL")
		return
	}
	writeError(w, status, err.Error(), errorCode(err))
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrNoSystemWallet),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrDuplicatePlan),
		errors.Is(err, domain.ErrDuplicateSystemWallet),
		errors.Is(err, domain.ErrDuplicateWalletName),
		errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAdminRequired),
		errors.Is(err, domain.ErrSelfDeletion):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidCryptoType),
		errors.Is(err, domain.ErrPlanInactive),
		errors.Is(err, domain.ErrAmountOutOfRange),
		errors.Is(err, domain.ErrInvalidWalletName),
		errors.Is(err, domain.ErrInvalidWalletAddress),
		errors.Is(err, domain.ErrInvalidPlanName),
		errors.Is(err, domain.ErrInterestOutOfRange),
		errors.Is(err, domain.ErrReferralBonusOutOfRange),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrNegativePlanAmount),
		errors.Is(err, domain.ErrMinExceedsMax),
		errors.Is(err, domain.ErrInvalidPlanStatus),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooWeak):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns a stable machine-readable code for a domain error.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrNoSystemWallet),
		errors.Is(err, domain.ErrUserNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, domain.ErrDuplicatePlan),
		errors.Is(err, domain.ErrDuplicateSystemWallet),
		errors.Is(err, domain.ErrDuplicateWalletName),
		errors.Is(err, domain.ErrDuplicateEmail):
		return "DUPLICATE"
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return "UNAUTHORIZED"
	case errors.Is(err, domain.ErrAdminRequired),
		errors.Is(err, domain.ErrSelfDeletion):
		return "FORBIDDEN"
	default:
		return "INVALID_REQUEST"
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_JSON")
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// requireUser extracts the authenticated user or answers 401.
func requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", "UNAUTHORIZED")
		return nil, false
	}
	return user, true
}
