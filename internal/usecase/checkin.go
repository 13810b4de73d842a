package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/clock"
	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/geo"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
)

type CheckInUsecase struct {
	checkIns repository.CheckInRepository
	gyms     repository.GymRepository
	clock    clock.Clock
	loc      *time.Location
}

// NewCheckInUsecase builds the check-in use-case. loc is the reference
// timezone for the one-check-in-per-day rule; nil means UTC.
func NewCheckInUsecase(checkIns repository.CheckInRepository, gyms repository.GymRepository, clk clock.Clock, loc *time.Location) *CheckInUsecase {
	if clk == nil {
		clk = clock.Real{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CheckInUsecase{checkIns: checkIns, gyms: gyms, clock: clk, loc: loc}
}

type CheckInInput struct {
	GymID         string
	UserID        string
	UserLatitude  float64
	UserLongitude float64
}

func (u *CheckInUsecase) CheckIn(ctx context.Context, input CheckInInput) (*domain.CheckIn, error) {
	userCoord, err := domain.NewCoordinate(input.UserLatitude, input.UserLongitude)
	if err != nil {
		return nil, err
	}

	gym, err := u.gyms.FindByID(ctx, input.GymID)
	if err != nil {
		if errors.Is(err, domain.ErrGymNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("find gym: %w", err)
	}

	if !geo.Within(userCoord, gym.Coordinate(), geo.MaxCheckInDistanceKm) {
		return nil, domain.ErrMaxDistance
	}

	now := u.clock.Now().In(u.loc)

	existing, err := u.checkIns.FindByUserIDOnDate(ctx, input.UserID, now)
	if err != nil && !errors.Is(err, domain.ErrCheckInNotFound) {
		return nil, fmt.Errorf("find check-in on date: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrMaxNumberOfCheckIns
	}

	checkIn, err := u.checkIns.Create(ctx, &domain.CheckIn{
		UserID:    input.UserID,
		GymID:     gym.ID,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMaxNumberOfCheckIns) {
			return nil, domain.ErrMaxNumberOfCheckIns
		}
		return nil, fmt.Errorf("create check-in: %w", err)
	}
	return checkIn, nil
}

type CheckInHistoryInput struct {
	UserID string
	Page   int
}

func (u *CheckInUsecase) FetchUserCheckInsHistory(ctx context.Context, input CheckInHistoryInput) ([]*domain.CheckIn, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	checkIns, err := u.checkIns.FindManyByUserID(ctx, input.UserID, page)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return checkIns, nil
}

func (u *CheckInUsecase) GetUserMetrics(ctx context.Context, userID string) (int, error) {
	count, err := u.checkIns.CountByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return count, nil
}
