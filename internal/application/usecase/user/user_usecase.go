package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careercompass/careercompass/internal/domain/user"
	"github.com/careercompass/careercompass/pkg/apperror"
	"github.com/careercompass/careercompass/pkg/auth"
	"github.com/careercompass/careercompass/pkg/logger"
)

// UserUseCase covers the admin-facing account operations: listing accounts
// and creating them with an explicit role.
type UserUseCase struct {
	repo   user.Repository
	logger logger.Logger
}

func NewUserUseCase(r user.Repository, log logger.Logger) *UserUseCase {
	return &UserUseCase{repo: r, logger: log}
}

type CreateUserInput struct {
	Email    string
	Name     *string
	Password string
	Role     string
}

func (uc *UserUseCase) Create(ctx context.Context, input CreateUserInput) (*user.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperror.NewInvalidInput("email and password are required", nil)
	}

	role, err := user.ParseRole(input.Role)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := u.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Save(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperror.NewConflict("user", "email", input.Email)
		}
		return nil, apperror.NewInternal("failed to create user", err)
	}

	return u, nil
}

type ListUsersInput struct {
	Page  int
	Limit int
}

func (uc *UserUseCase) List(ctx context.Context, input ListUsersInput) ([]*user.User, error) {
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 100
	}
	if input.Page <= 0 {
		input.Page = 1
	}
	offset := (input.Page - 1) * input.Limit

	users, err := uc.repo.List(ctx, input.Limit, offset)
	if err != nil {
		return nil, apperror.NewInternal("failed to list users", err)
	}
	return users, nil
}
