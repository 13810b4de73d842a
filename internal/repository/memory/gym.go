package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/geo"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
	"github.com/google/uuid"
)

type GymRepository struct {
	mu    sync.RWMutex
	items []domain.Gym
}

func NewGymRepository() *GymRepository {
	return &GymRepository{}
}

func (r *GymRepository) Create(_ context.Context, gym *domain.Gym) (*domain.Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := *gym
	g.ID = uuid.NewString()
	r.items = append(r.items, g)

	return &g, nil
}

func (r *GymRepository) FindByID(_ context.Context, id string) (*domain.Gym, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			g := r.items[i]
			return &g, nil
		}
	}
	return nil, domain.ErrGymNotFound
}

func (r *GymRepository) SearchMany(_ context.Context, query string, page int) ([]*domain.Gym, error) {
	r.mu.RLock()
	needle := strings.ToLower(query)
	var matched []*domain.Gym
	for i := range r.items {
		if strings.Contains(strings.ToLower(r.items[i].Title), needle) {
			g := r.items[i]
			matched = append(matched, &g)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Title != matched[j].Title {
			return matched[i].Title < matched[j].Title
		}
		return matched[i].ID < matched[j].ID
	})

	return paginate(matched, page), nil
}

func (r *GymRepository) FindManyNearby(_ context.Context, from domain.Coordinate) ([]*domain.Gym, error) {
	type candidate struct {
		gym      *domain.Gym
		distance float64
	}

	r.mu.RLock()
	var found []candidate
	for i := range r.items {
		d := geo.Distance(from, r.items[i].Coordinate())
		if d <= geo.NearbyRadiusKm+geo.Tolerance {
			g := r.items[i]
			found = append(found, candidate{gym: &g, distance: d})
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].gym.ID < found[j].gym.ID
	})

	gyms := make([]*domain.Gym, len(found))
	for i, c := range found {
		gyms[i] = c.gym
	}
	return gyms, nil
}

func paginate[T any](items []T, page int) []T {
	offset := repository.Offset(page)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + repository.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
