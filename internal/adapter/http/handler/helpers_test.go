package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"plan not found", domain.ErrPlanNotFound, http.StatusNotFound},
		{"no system wallet", domain.ErrNoSystemWallet, http.StatusNotFound},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict},
		{"duplicate plan", domain.ErrDuplicatePlan, http.StatusConflict},
		{"bad credentials", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized},
		{"admin required", domain.ErrAdminRequired, http.StatusForbidden},
		{"self deletion", domain.ErrSelfDeletion, http.StatusForbidden},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"amount out of range", domain.ErrAmountOutOfRange, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	if got := errorCode(domain.ErrInsufficientFunds); got != "INSUFFICIENT_FUNDS" {
		t.Fatalf("expected INSUFFICIENT_FUNDS, got %s", got)
	}
	if got := errorCode(domain.ErrInvalidState); got != "INVALID_STATE" {
		t.Fatalf("expected INVALID_STATE, got %s", got)
	}
	if got := errorCode(domain.ErrDuplicateWalletName); got != "DUPLICATE" {
		t.Fatalf("expected DUPLICATE, got %s", got)
	}
	if got := errorCode(domain.ErrInvalidAmount); got != "INVALID_REQUEST" {
		t.Fatalf("expected INVALID_REQUEST, got %s", got)
	}
}

func TestWriteJSON_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !decoded.Success || decoded.Data["status"] != "ok" {
		t.Fatalf("expected success envelope, got %+v", decoded)
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "INVALID_REQUEST")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Success {
		t.Fatal("expected success=false on error responses")
	}
	if resp.Message != "bad request" || resp.Code != "INVALID_REQUEST" {
		t.Fatalf("expected message and code to propagate, got %+v", resp)
	}
}

func TestWriteDomainError_OpaqueInternal(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, errors.New("pq: connection refused"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Message != "internal server error" {
		t.Fatalf("internal error details must not leak, got %q", resp.Message)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func withUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(domain.ContextWithUser(r.Context(), user))
}
