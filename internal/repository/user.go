package repository

import (
	"context"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
)

// UseCase depends on interface, not concrete implementation.
// This way we get: 1) can swap DB later without touching usecase 2) We can pass a mock implementation of interface in tests
type UserRepository interface {
	// Create assigns ID, and CreatedAt when the caller left it zero. Returns
	// domain.ErrUserAlreadyExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no user has that exact email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
