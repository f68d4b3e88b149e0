package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// PlanService defines the behavior needed by PlanHandler.
type PlanService interface {
	CreatePlan(ctx context.Context, input usecase.CreatePlanInput) (*domain.InvestmentPlan, error)
	GetPlan(ctx context.Context, id string) (*domain.InvestmentPlan, error)
	UpdatePlan(ctx context.Context, input usecase.UpdatePlanInput) (*domain.InvestmentPlan, error)
	DeletePlan(ctx context.Context, id string) error
	ListPlans(ctx context.Context, input usecase.ListPlansInput) ([]*domain.InvestmentPlan, error)
}

// PlanHandler handles investment plan endpoints.
type PlanHandler struct {
	planUC PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planUC PlanService) *PlanHandler {
	return &PlanHandler{planUC: planUC}
}

// Create creates a new plan (admin).
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	plan, err := h.planUC.CreatePlan(r.Context(), usecase.CreatePlanInput{Plan: req.ToDomain()})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PlanFromDomain(plan))
}

// Get retrieves a plan by ID.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing plan ID", "INVALID_REQUEST")
		return
	}

	plan, err := h.planUC.GetPlan(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PlanFromDomain(plan))
}

// Update updates a plan (admin). Existing investments keep their frozen
// projections.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing plan ID", "INVALID_REQUEST")
		return
	}

	var req dto.PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	plan, err := h.planUC.UpdatePlan(r.Context(), usecase.UpdatePlanInput{
		ID:   id,
		Plan: req.ToDomain(),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PlanFromDomain(plan))
}

// Delete deletes a plan (admin).
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing plan ID", "INVALID_REQUEST")
		return
	}

	if err := h.planUC.DeletePlan(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "plan deleted"})
}

// List lists plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planUC.ListPlans(r.Context(), usecase.ListPlansInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PlansFromDomain(plans))
}
