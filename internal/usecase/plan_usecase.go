package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coinvest/coinvest/internal/domain"
)

// PlanUseCase handles investment plan catalog logic. Reads go through a
// cache; mutations invalidate eagerly.
type PlanUseCase struct {
	planRepo  PlanRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	cache     Cache
}

// NewPlanUseCase creates a new PlanUseCase.
func NewPlanUseCase(planRepo PlanRepository, auditRepo AuditRepository, idGen IDGenerator, cache Cache) *PlanUseCase {
	return &PlanUseCase{
		planRepo:  planRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
		cache:     cache,
	}
}

// CreatePlanInput represents input for creating an investment plan.
type CreatePlanInput struct {
	Plan domain.InvestmentPlan
}

// CreatePlan validates and stores a new plan. Names are unique; the
// check here gives a clean error and the unique constraint backstops
// the race.
func (uc *PlanUseCase) CreatePlan(ctx context.Context, input CreatePlanInput) (*domain.InvestmentPlan, error) {
	plan := input.Plan

	if plan.Category == "" {
		plan.Category = domain.PlanCategoryStandard
	}
	if plan.Status == "" {
		plan.Status = domain.PlanActive
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.planRepo.GetByName(ctx, plan.Name); err == nil {
		return nil, domain.ErrDuplicatePlan
	} else if !errors.Is(err, domain.ErrPlanNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	plan.ID = uc.idGen.Generate()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if err := uc.planRepo.Create(ctx, &plan); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionPlanCreate, plan.ID, nil, &plan)

	return &plan, nil
}

// GetPlan retrieves a plan by ID, cache first.
func (uc *PlanUseCase) GetPlan(ctx context.Context, id string) (*domain.InvestmentPlan, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, planCacheKey(id)); err == nil && data != nil {
			var plan domain.InvestmentPlan
			if err := json.Unmarshal(data, &plan); err == nil {
				return &plan, nil
			}
		}
	}

	plan, err := uc.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(plan); err == nil {
			_ = uc.cache.Set(ctx, planCacheKey(id), data, PlanCacheTTL)
		}
	}

	return plan, nil
}

// UpdatePlanInput represents input for updating a plan. Nil fields are
// left unchanged.
type UpdatePlanInput struct {
	ID   string
	Plan domain.InvestmentPlan
}

// UpdatePlan validates and stores the updated plan. Transactions created
// against the previous version keep their frozen projections.
func (uc *PlanUseCase) UpdatePlan(ctx context.Context, input UpdatePlanInput) (*domain.InvestmentPlan, error) {
	existing, err := uc.planRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	plan := input.Plan
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = time.Now().UTC()

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if plan.Name != existing.Name {
		if _, err := uc.planRepo.GetByName(ctx, plan.Name); err == nil {
			return nil, domain.ErrDuplicatePlan
		} else if !errors.Is(err, domain.ErrPlanNotFound) {
			return nil, err
		}
	}

	if err := uc.planRepo.Update(ctx, &plan); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, plan.ID)
	uc.audit(ctx, domain.AuditActionPlanUpdate, plan.ID, existing, &plan)

	return &plan, nil
}

// DeletePlan removes a plan from the catalog.
func (uc *PlanUseCase) DeletePlan(ctx context.Context, id string) error {
	existing, err := uc.planRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.planRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	uc.audit(ctx, domain.AuditActionPlanDelete, id, existing, nil)

	return nil
}

// ListPlansInput represents input for listing plans.
type ListPlansInput struct {
	Limit  int
	Offset int
}

// ListPlans lists plans with pagination.
func (uc *PlanUseCase) ListPlans(ctx context.Context, input ListPlansInput) ([]*domain.InvestmentPlan, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.planRepo.List(ctx, limit, offset)
}

func (uc *PlanUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, planCacheKey(id))
}

func (uc *PlanUseCase) audit(ctx context.Context, action domain.AuditAction, planID string, before, after *domain.InvestmentPlan) {
	if uc.auditRepo == nil {
		return
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "plan",
		ResourceID:   planID,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now(),
	}
	if before != nil {
		auditLog.BeforeState = domain.MarshalState(before)
	}
	if after != nil {
		auditLog.AfterState = domain.MarshalState(after)
	}

	_ = uc.auditRepo.Create(ctx, auditLog)
}

func planCacheKey(id string) string {
	return "plan:" + id
}
