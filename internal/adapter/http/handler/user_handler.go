package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/usecase"
)

// UserService defines the behavior needed by UserHandler.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error
	GetOverview(ctx context.Context, id string) (*usecase.AccountOverview, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// UserHandler handles profile and account endpoints.
type UserHandler struct {
	userUC UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC UserService) *UserHandler {
	return &UserHandler{userUC: userUC}
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.userUC.GetUser(r.Context(), actor.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// UpdateProfile edits the authenticated user's profile fields.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userUC.UpdateProfile(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// ChangePassword changes the authenticated user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.userUC.ChangePassword(r.Context(), req.ToUseCaseInput(actor.ID)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// GetOverview returns the authenticated user's balance summary.
func (h *UserHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}

	overview, err := h.userUC.GetOverview(r.Context(), actor.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OverviewFromDomain(overview))
}

// ListUsers lists all users (admin).
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	users, err := h.userUC.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(users))
}

// DeleteUser deletes a user (admin).
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "INVALID_REQUEST")
		return
	}

	if err := h.userUC.DeleteUser(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
