// Package memory holds slice-backed repositories used by tests and by the
// server when STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	items []domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].Email == user.Email {
			return nil, domain.ErrUserAlreadyExists
		}
	}

	u := *user
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	r.items = append(r.items, u)

	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].Email == email {
			u := r.items[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			u := r.items[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
