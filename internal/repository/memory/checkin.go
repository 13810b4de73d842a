package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/google/uuid"
)

type CheckInRepository struct {
	mu    sync.RWMutex
	items []domain.CheckIn
}

func NewCheckInRepository() *CheckInRepository {
	return &CheckInRepository{}
}

// Create checks the same-day rule and inserts under one lock, so two
// concurrent creates for the same user and day cannot both succeed.
func (r *CheckInRepository) Create(_ context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findOnDate(checkIn.UserID, checkIn.CreatedAt) != nil {
		return nil, domain.ErrMaxNumberOfCheckIns
	}

	c := *checkIn
	c.ID = uuid.NewString()
	r.items = append(r.items, c)

	return &c, nil
}

func (r *CheckInRepository) FindByUserIDOnDate(_ context.Context, userID string, date time.Time) (*domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c := r.findOnDate(userID, date); c != nil {
		return c, nil
	}
	return nil, domain.ErrCheckInNotFound
}

func (r *CheckInRepository) CountByUserID(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for i := range r.items {
		if r.items[i].UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *CheckInRepository) FindManyByUserID(_ context.Context, userID string, page int) ([]*domain.CheckIn, error) {
	r.mu.RLock()
	var owned []*domain.CheckIn
	for i := range r.items {
		if r.items[i].UserID == userID {
			c := r.items[i]
			owned = append(owned, &c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].ID > owned[j].ID
	})

	return paginate(owned, page), nil
}

// findOnDate must be called with r.mu held.
func (r *CheckInRepository) findOnDate(userID string, date time.Time) *domain.CheckIn {
	start, end := domain.DayBounds(date)
	for i := range r.items {
		c := r.items[i]
		if c.UserID != userID {
			continue
		}
		if !c.CreatedAt.Before(start) && c.CreatedAt.Before(end) {
			return &c
		}
	}
	return nil
}
