package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/geo"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
)

const createGymsTable = `
CREATE TABLE IF NOT EXISTS gyms (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	phone TEXT,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL
);
`

type GymRepository struct {
	db *sql.DB
}

func NewGymRepository(db *sql.DB) *GymRepository {
	return &GymRepository{db: db}
}

func (r *GymRepository) Create(ctx context.Context, gym *domain.Gym) (*domain.Gym, error) {
	g := *gym
	g.ID = newID()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO gyms (id, title, description, phone, latitude, longitude)
VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID,
		g.Title,
		g.Description,
		g.Phone,
		g.Latitude,
		g.Longitude,
	)
	if err != nil {
		return nil, fmt.Errorf("insert gym: %w", err)
	}
	return &g, nil
}

func (r *GymRepository) FindByID(ctx context.Context, id string) (*domain.Gym, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, phone, latitude, longitude
FROM gyms
WHERE id = ?`,
		id,
	)
	return scanGym(row)
}

// SearchMany folds case in Go; sqlite's LOWER only folds ASCII, which would
// miss accented titles.
func (r *GymRepository) SearchMany(ctx context.Context, query string, page int) ([]*domain.Gym, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, phone, latitude, longitude
FROM gyms
ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("search gyms: %w", err)
	}
	defer rows.Close()

	all, err := collectGyms(rows)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	offset := repository.Offset(page)
	gyms := []*domain.Gym{}
	for _, g := range all {
		if !strings.Contains(strings.ToLower(g.Title), needle) {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		gyms = append(gyms, g)
		if len(gyms) == repository.PageSize {
			break
		}
	}
	return gyms, nil
}

// FindManyNearby scans every gym and filters by haversine distance in Go;
// sqlite has no trigonometric functions by default.
func (r *GymRepository) FindManyNearby(ctx context.Context, from domain.Coordinate) ([]*domain.Gym, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, phone, latitude, longitude
FROM gyms`)
	if err != nil {
		return nil, fmt.Errorf("list gyms: %w", err)
	}
	defer rows.Close()

	all, err := collectGyms(rows)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		gym      *domain.Gym
		distance float64
	}
	var candidates []ranked
	for _, g := range all {
		d := geo.Distance(from, g.Coordinate())
		if d <= geo.NearbyRadiusKm+geo.Tolerance {
			candidates = append(candidates, ranked{gym: g, distance: d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].gym.ID < candidates[j].gym.ID
	})

	gyms := make([]*domain.Gym, 0, len(candidates))
	for _, c := range candidates {
		gyms = append(gyms, c.gym)
	}
	return gyms, nil
}

func collectGyms(rows *sql.Rows) ([]*domain.Gym, error) {
	gyms := []*domain.Gym{}
	for rows.Next() {
		g, err := scanGym(rows)
		if err != nil {
			return nil, err
		}
		gyms = append(gyms, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gyms: %w", err)
	}
	return gyms, nil
}

func scanGym(row rowScanner) (*domain.Gym, error) {
	var (
		gym         domain.Gym
		description sql.NullString
		phone       sql.NullString
	)
	if err := row.Scan(
		&gym.ID,
		&gym.Title,
		&description,
		&phone,
		&gym.Latitude,
		&gym.Longitude,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGymNotFound
		}
		return nil, fmt.Errorf("scan gym: %w", err)
	}
	if description.Valid {
		gym.Description = &description.String
	}
	if phone.Valid {
		gym.Phone = &phone.String
	}
	return &gym, nil
}
