package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

type transactionServiceStub struct {
	createInvestmentFn func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Transaction, error)
	requestWithdrawFn  func(ctx context.Context, input usecase.RequestWithdrawalInput) (*domain.Transaction, error)
	createDepositFn    func(ctx context.Context, input usecase.CreateDepositInput) (*domain.Transaction, error)
	approveFn          func(ctx context.Context, id string) (*domain.Transaction, error)
	rejectFn           func(ctx context.Context, id string) (*domain.Transaction, error)
	createAdjustmentFn func(ctx context.Context, input usecase.CreateAdjustmentInput) (*domain.Transaction, error)
	getFn              func(ctx context.Context, id string) (*domain.Transaction, error)
	listByUserFn       func(ctx context.Context, input usecase.ListByUserInput) ([]*domain.Transaction, error)
	listFn             func(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	volumeFn           func(ctx context.Context) (domain.Volume, error)
}

func (s *transactionServiceStub) CreateInvestment(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Transaction, error) {
	if s.createInvestmentFn == nil {
		return nil, nil
	}
	return s.createInvestmentFn(ctx, input)
}

func (s *transactionServiceStub) RequestWithdrawal(ctx context.Context, input usecase.RequestWithdrawalInput) (*domain.Transaction, error) {
	if s.requestWithdrawFn == nil {
		return nil, nil
	}
	return s.requestWithdrawFn(ctx, input)
}

func (s *transactionServiceStub) CreateDeposit(ctx context.Context, input usecase.CreateDepositInput) (*domain.Transaction, error) {
	if s.createDepositFn == nil {
		return nil, nil
	}
	return s.createDepositFn(ctx, input)
}

func (s *transactionServiceStub) Approve(ctx context.Context, id string) (*domain.Transaction, error) {
	if s.approveFn == nil {
		return nil, nil
	}
	return s.approveFn(ctx, id)
}

func (s *transactionServiceStub) Reject(ctx context.Context, id string) (*domain.Transaction, error) {
	if s.rejectFn == nil {
		return nil, nil
	}
	return s.rejectFn(ctx, id)
}

func (s *transactionServiceStub) CreateAdjustment(ctx context.Context, input usecase.CreateAdjustmentInput) (*domain.Transaction, error) {
	if s.createAdjustmentFn == nil {
		return nil, nil
	}
	return s.createAdjustmentFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, id)
}

func (s *transactionServiceStub) ListByUser(ctx context.Context, input usecase.ListByUserInput) ([]*domain.Transaction, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, input)
}

func (s *transactionServiceStub) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func (s *transactionServiceStub) InvestmentVolume(ctx context.Context) (domain.Volume, error) {
	if s.volumeFn == nil {
		return domain.Volume{}, nil
	}
	return s.volumeFn(ctx)
}

func TestTransactionHandler_Invest_Success(t *testing.T) {
	txn := &domain.Transaction{
		ID:     "txn-1",
		UserID: "user-1",
		Type:   domain.TypeInvestment,
		Status: domain.StatusPending,
		Amount: decimal.NewFromInt(500),
	}
	var captured usecase.CreateInvestmentInput

	handler := NewTransactionHandler(&transactionServiceStub{
		createInvestmentFn: func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Transaction, error) {
			captured = input
			return txn, nil
		},
	})

	body, _ := json.Marshal(dto.InvestRequest{
		PlanID:     "plan-1",
		Amount:     decimal.NewFromInt(500),
		CryptoType: "BTC",
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions/invest", bytes.NewReader(body))
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Invest(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if captured.UserID != "user-1" || captured.PlanID != "plan-1" {
		t.Fatalf("expected input to carry the actor and plan, got %+v", captured)
	}

	var resp struct {
		Success bool                    `json:"success"`
		Data    dto.TransactionResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != "txn-1" || resp.Data.Status != "PENDING" {
		t.Fatalf("expected pending transaction txn-1, got %+v", resp.Data)
	}
}

func TestTransactionHandler_Invest_Unauthenticated(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createInvestmentFn: func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Transaction, error) {
			t.Fatal("CreateInvestment should not be called")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.InvestRequest{PlanID: "plan-1", Amount: decimal.NewFromInt(500)})
	req := httptest.NewRequest(http.MethodPost, "/transactions/invest", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Invest(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTransactionHandler_Invest_InvalidBody(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createInvestmentFn: func(ctx context.Context, input usecase.CreateInvestmentInput) (*domain.Transaction, error) {
			t.Fatal("CreateInvestment should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions/invest", bytes.NewBufferString("{bad json"))
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Invest(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Withdraw_InsufficientFunds(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		requestWithdrawFn: func(ctx context.Context, input usecase.RequestWithdrawalInput) (*domain.Transaction, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	body, _ := json.Marshal(dto.WithdrawRequest{WalletID: "wallet-1", Amount: decimal.NewFromInt(9999)})
	req := httptest.NewRequest(http.MethodPost, "/transactions/withdraw", bytes.NewReader(body))
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Code != "INSUFFICIENT_FUNDS" {
		t.Fatalf("expected INSUFFICIENT_FUNDS code, got %s", resp.Code)
	}
}

func TestTransactionHandler_Get_HidesOtherUsersEntries(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return &domain.Transaction{ID: id, UserID: "someone-else"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions/txn-1", nil)
	req = setChiURLParam(req, "id", "txn-1")
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's transaction, got %d", rec.Code)
	}
}

func TestTransactionHandler_Get_AdminSeesEverything(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return &domain.Transaction{ID: id, UserID: "someone-else"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions/txn-1", nil)
	req = setChiURLParam(req, "id", "txn-1")
	req = withUser(req, &domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestTransactionHandler_ListMine_PassesPagination(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		listByUserFn: func(ctx context.Context, input usecase.ListByUserInput) ([]*domain.Transaction, error) {
			if input.UserID != "user-1" || input.Limit != 5 || input.Offset != 10 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.Transaction{{ID: "txn-1", UserID: "user-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=5&offset=10", nil)
	req = withUser(req, &domain.User{ID: "user-1", Role: domain.RoleUser})
	rec := httptest.NewRecorder()

	handler.ListMine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTransactionHandler_Approve_InvalidState(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		approveFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return nil, domain.ErrInvalidState
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/admin/transactions/txn-1/approve", nil)
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Approve(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a settled transaction, got %d", rec.Code)
	}
}

func TestTransactionHandler_Reject_Success(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		rejectFn: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return &domain.Transaction{ID: id, Status: domain.StatusRejected}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/admin/transactions/txn-1/reject", nil)
	req = setChiURLParam(req, "id", "txn-1")
	rec := httptest.NewRecorder()

	handler.Reject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTransactionHandler_CreateAdjustment(t *testing.T) {
	var captured usecase.CreateAdjustmentInput

	handler := NewTransactionHandler(&transactionServiceStub{
		createAdjustmentFn: func(ctx context.Context, input usecase.CreateAdjustmentInput) (*domain.Transaction, error) {
			captured = input
			return &domain.Transaction{ID: "txn-adj", UserID: input.UserID, Status: domain.StatusApproved}, nil
		},
	})

	body, _ := json.Marshal(dto.AdjustmentRequest{
		Amount:     decimal.NewFromInt(-50),
		CryptoType: "USDT",
		Reason:     "chargeback",
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/users/user-2/adjustments", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "user-2")
	rec := httptest.NewRecorder()

	handler.CreateAdjustment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if captured.UserID != "user-2" || captured.Reason != "chargeback" {
		t.Fatalf("expected adjustment input for user-2, got %+v", captured)
	}
}

func TestTransactionHandler_Volume(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		volumeFn: func(ctx context.Context) (domain.Volume, error) {
			return domain.Volume{Count: 3, Total: decimal.NewFromInt(1500)}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/transactions/volume", nil)
	rec := httptest.NewRecorder()

	handler.Volume(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    dto.VolumeResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Count != 3 || !resp.Data.Total.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected volume 3/1500, got %+v", resp.Data)
	}
}
