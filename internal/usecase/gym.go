package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
)

type GymUsecase struct {
	gyms repository.GymRepository
}

func NewGymUsecase(gyms repository.GymRepository) *GymUsecase {
	return &GymUsecase{gyms: gyms}
}

type CreateGymInput struct {
	Title       string
	Description *string
	Phone       *string
	Latitude    float64
	Longitude   float64
}

func (u *GymUsecase) CreateGym(ctx context.Context, input CreateGymInput) (*domain.Gym, error) {
	coord, err := domain.NewCoordinate(input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	gym, err := u.gyms.Create(ctx, &domain.Gym{
		Title:       input.Title,
		Description: input.Description,
		Phone:       input.Phone,
		Latitude:    coord.Latitude,
		Longitude:   coord.Longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("create gym: %w", err)
	}
	return gym, nil
}

type FetchNearbyGymsInput struct {
	UserLatitude  float64
	UserLongitude float64
}

// FetchNearbyGyms leaves the radius filter to the repository.
func (u *GymUsecase) FetchNearbyGyms(ctx context.Context, input FetchNearbyGymsInput) ([]*domain.Gym, error) {
	from, err := domain.NewCoordinate(input.UserLatitude, input.UserLongitude)
	if err != nil {
		return nil, err
	}

	gyms, err := u.gyms.FindManyNearby(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("find nearby gyms: %w", err)
	}
	return gyms, nil
}

type SearchGymsInput struct {
	Query string
	Page  int
}

func (u *GymUsecase) SearchGyms(ctx context.Context, input SearchGymsInput) ([]*domain.Gym, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	gyms, err := u.gyms.SearchMany(ctx, input.Query, page)
	if err != nil {
		return nil, fmt.Errorf("search gyms: %w", err)
	}
	return gyms, nil
}
