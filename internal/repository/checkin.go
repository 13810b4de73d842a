package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
)

// Calendar days are taken in the location of the time values the caller
// passes in, so the caller decides the reference timezone.
type CheckInRepository interface {
	// Create assigns ID. Returns domain.ErrMaxNumberOfCheckIns when the user
	// already has a check-in on the calendar date of checkIn.CreatedAt.
	Create(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error)

	// FindByUserIDOnDate returns domain.ErrCheckInNotFound when the user has
	// no check-in on date's calendar day.
	FindByUserIDOnDate(ctx context.Context, userID string, date time.Time) (*domain.CheckIn, error)

	CountByUserID(ctx context.Context, userID string) (int, error)

	// FindManyByUserID lists the user's check-ins newest first.
	FindManyByUserID(ctx context.Context, userID string, page int) ([]*domain.CheckIn, error)
}

// Offset converts a 1-based page number into a row offset. Pages below 1 are
// treated as the first page.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
