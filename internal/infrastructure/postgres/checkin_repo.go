package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const checkInColumns = `id, user_id, gym_id, created_at, validated_at`

type CheckInRepository struct {
	pool *pgxpool.Pool
}

func NewCheckInRepository(pool *pgxpool.Pool) *CheckInRepository {
	return &CheckInRepository{pool: pool}
}

// Create stores the check-in under the calendar date of CreatedAt in its own
// location. The unique (user_id, check_in_date) constraint rejects a second
// check-in for that date.
func (r *CheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error) {
	query := `
		INSERT INTO check_ins (user_id, gym_id, created_at, check_in_date, validated_at)
		VALUES ($1, $2, $3, $4::date, $5)
		RETURNING ` + checkInColumns

	row := r.pool.QueryRow(ctx, query,
		checkIn.UserID,
		checkIn.GymID,
		checkIn.CreatedAt,
		domain.CalendarDate(checkIn.CreatedAt),
		checkIn.ValidatedAt,
	)

	created, err := scanCheckIn(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrMaxNumberOfCheckIns
		}
		return nil, fmt.Errorf("create check-in: %w", err)
	}
	return created, nil
}

func (r *CheckInRepository) FindByUserIDOnDate(ctx context.Context, userID string, date time.Time) (*domain.CheckIn, error) {
	if !validID(userID) {
		return nil, domain.ErrCheckInNotFound
	}
	query := `
		SELECT ` + checkInColumns + `
		FROM check_ins
		WHERE user_id = $1 AND check_in_date = $2::date`

	return scanCheckIn(r.pool.QueryRow(ctx, query, userID, domain.CalendarDate(date)))
}

func (r *CheckInRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM check_ins WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return count, nil
}

func (r *CheckInRepository) FindManyByUserID(ctx context.Context, userID string, page int) ([]*domain.CheckIn, error) {
	checkIns := []*domain.CheckIn{}
	if !validID(userID) {
		return checkIns, nil
	}

	query := `
		SELECT ` + checkInColumns + `
		FROM check_ins
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, repository.PageSize, repository.Offset(page))
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check-ins: %w", err)
	}
	return checkIns, nil
}

func scanCheckIn(row rowScanner) (*domain.CheckIn, error) {
	var c domain.CheckIn
	err := row.Scan(&c.ID, &c.UserID, &c.GymID, &c.CreatedAt, &c.ValidatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCheckInNotFound
		}
		return nil, fmt.Errorf("scan check-in: %w", err)
	}
	return &c, nil
}
