package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
)

// created_at and validated_at hold unix nanoseconds; check_in_date is the
// YYYY-MM-DD calendar date of created_at in the caller's location.
const createCheckInsTable = `
CREATE TABLE IF NOT EXISTS check_ins (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users (id),
	gym_id TEXT NOT NULL REFERENCES gyms (id),
	created_at INTEGER NOT NULL,
	check_in_date TEXT NOT NULL,
	validated_at INTEGER,
	UNIQUE (user_id, check_in_date)
);
CREATE INDEX IF NOT EXISTS check_ins_user_created_idx ON check_ins (user_id, created_at DESC);
`

type CheckInRepository struct {
	db *sql.DB
}

func NewCheckInRepository(db *sql.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

func (r *CheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error) {
	c := *checkIn
	c.ID = newID()

	var validatedAt sql.NullInt64
	if c.ValidatedAt != nil {
		validatedAt = sql.NullInt64{Int64: c.ValidatedAt.UnixNano(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO check_ins (id, user_id, gym_id, created_at, check_in_date, validated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.UserID,
		c.GymID,
		c.CreatedAt.UnixNano(),
		domain.CalendarDate(c.CreatedAt),
		validatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrMaxNumberOfCheckIns
		}
		return nil, fmt.Errorf("insert check-in: %w", err)
	}
	return &c, nil
}

func (r *CheckInRepository) FindByUserIDOnDate(ctx context.Context, userID string, date time.Time) (*domain.CheckIn, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, gym_id, created_at, validated_at
FROM check_ins
WHERE user_id = ? AND check_in_date = ?`,
		userID,
		domain.CalendarDate(date),
	)
	return scanCheckIn(row)
}

func (r *CheckInRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM check_ins WHERE user_id = ?`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return count, nil
}

func (r *CheckInRepository) FindManyByUserID(ctx context.Context, userID string, page int) ([]*domain.CheckIn, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, gym_id, created_at, validated_at
FROM check_ins
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`,
		userID,
		repository.PageSize,
		repository.Offset(page),
	)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	checkIns := []*domain.CheckIn{}
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
	var (
		c           domain.CheckIn
		createdAt   int64
		validatedAt sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.GymID, &createdAt, &validatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCheckInNotFound
		}
		return nil, fmt.Errorf("scan check-in: %w", err)
	}
	c.CreatedAt = time.Unix(0, createdAt).UTC()
	if validatedAt.Valid {
		t := time.Unix(0, validatedAt.Int64).UTC()
		c.ValidatedAt = &t
	}
	return &c, nil
}
