package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/gym-checkin/internal/clock"
	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/password"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
)

type UserUsecase struct {
	users  repository.UserRepository
	hasher password.Hasher
	clock  clock.Clock
}

func NewUserUsecase(users repository.UserRepository, hasher password.Hasher, clk clock.Clock) *UserUsecase {
	if clk == nil {
		clk = clock.Real{}
	}
	return &UserUsecase{users: users, hasher: hasher, clock: clk}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a user with a hashed password. The raw password is never stored.
func (u *UserUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		CreatedAt:    u.clock.Now(),
	})
	if err != nil {
		// lost a race against a concurrent registration for the same email
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate returns ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (u *UserUsecase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if !u.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
