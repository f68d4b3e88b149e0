package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/coinvest/coinvest/internal/domain"
)

// UserUseCase handles user management operations
type UserUseCase struct {
	userRepo  UserRepository
	auditRepo AuditRepository
	idGen     IDGenerator
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo UserRepository, auditRepo AuditRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
	}
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        domain.Role
}

// Register creates a new user with hashed password and zeroed balances.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, errors.New("invalid role")
	}

	// Check if user already exists
	if _, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                 uc.idGen.Generate(),
		Name:               input.Name,
		Email:              input.Email,
		HashedPassword:     hashedPassword,
		PhoneNumber:        input.PhoneNumber,
		Role:               role,
		ActiveCapital:      decimal.Zero,
		ReturnOnInvestment: decimal.Zero,
		DormantFunds:       decimal.Zero,
		TradingStatus:      domain.TradingDormant,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Don't return hashed password
	user.HashedPassword = ""
	return user, nil
}

// AuthenticateInput represents authentication input
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if err := verifyPassword(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// UpdateProfileInput represents input for editing profile fields. Nil
// fields are left unchanged.
type UpdateProfileInput struct {
	ID          string
	Name        *string
	PhoneNumber *string
}

// UpdateProfile updates a user's profile fields. Balance fields are not
// reachable from here; they change only through approved transactions.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// ChangePasswordInput represents input for a password change
type ChangePasswordInput struct {
	ID              string
	CurrentPassword string
	NewPassword     string
}

// ChangePassword verifies the current password before storing the new
// hash.
func (uc *UserUseCase) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if err := verifyPassword(user.HashedPassword, input.CurrentPassword); err != nil {
		return domain.ErrUnauthorized
	}

	if err := domain.ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	hashedPassword, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	return uc.userRepo.UpdatePassword(ctx, user.ID, hashedPassword, time.Now().UTC())
}

// AccountOverview is the balance summary shown on the dashboard.
type AccountOverview struct {
	ActiveCapital      decimal.Decimal
	ReturnOnInvestment decimal.Decimal
	DormantFunds       decimal.Decimal
	TotalBalance       decimal.Decimal
	TradingStatus      domain.TradingStatus
}

// GetOverview returns the user's balance summary.
func (uc *UserUseCase) GetOverview(ctx context.Context, id string) (*AccountOverview, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AccountOverview{
		ActiveCapital:      user.ActiveCapital,
		ReturnOnInvestment: user.ReturnOnInvestment,
		DormantFunds:       user.DormantFunds,
		TotalBalance:       user.ActiveCapital.Add(user.ReturnOnInvestment).Add(user.DormantFunds),
		TradingStatus:      user.TradingStatus,
	}, nil
}

// DeleteUser deletes a user (admin). Admins cannot delete themselves.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	if actor, ok := domain.UserFromContext(ctx); ok && actor.ID == id {
		return domain.ErrSelfDeletion
	}

	if _, err := uc.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		actorID := "system"
		if actor, ok := domain.UserFromContext(ctx); ok {
			actorID = actor.ID
		}

		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       actorID,
			Action:       string(domain.AuditActionUserDelete),
			ResourceType: "user",
			ResourceID:   id,
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    time.Now(),
		}
		_ = uc.auditRepo.Create(ctx, auditLog)
	}

	return nil
}

// ListUsers lists all users with pagination (admin)
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	// Remove hashed passwords
	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
