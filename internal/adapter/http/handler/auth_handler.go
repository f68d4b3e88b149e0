package handler

import (
	"context"
	"net/http"

	"github.com/coinvest/coinvest/internal/adapter/http/dto"
	"github.com/coinvest/coinvest/internal/domain"
	"github.com/coinvest/coinvest/internal/infrastructure/auth"
	"github.com/coinvest/coinvest/internal/usecase"
)

// AuthService defines the behavior needed by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	userUC     AuthService
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC AuthService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
	}
}

// Register creates a new user account and issues a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", "INTERNAL")
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", "INTERNAL")
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Me returns the authenticated user's full record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
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
