package repository

import (
	"context"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
)

// PageSize is the fixed page size of every paginated listing. Pages start at 1.
const PageSize = 20

type GymRepository interface {
	Create(ctx context.Context, gym *domain.Gym) (*domain.Gym, error)
	FindByID(ctx context.Context, id string) (*domain.Gym, error)

	// SearchMany matches query as a case-insensitive substring of the title,
	// ordered by title then id.
	SearchMany(ctx context.Context, query string, page int) ([]*domain.Gym, error)

	// FindManyNearby returns gyms within geo.NearbyRadiusKm of from, closest first.
	FindManyNearby(ctx context.Context, from domain.Coordinate) ([]*domain.Gym, error)
}
