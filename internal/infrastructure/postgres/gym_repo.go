package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/geo"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const gymColumns = `id, title, description, phone, latitude::float8, longitude::float8`

// Same formula as geo.Distance; h.a is the haversine of the central angle.
const haversineSQL = `2 * 6371.0 * atan2(sqrt(LEAST(1, h.a)), sqrt(GREATEST(0, 1 - h.a)))`

type GymRepository struct {
	pool *pgxpool.Pool
}

func NewGymRepository(pool *pgxpool.Pool) *GymRepository {
	return &GymRepository{pool: pool}
}

func (r *GymRepository) Create(ctx context.Context, gym *domain.Gym) (*domain.Gym, error) {
	query := `
		INSERT INTO gyms (title, description, phone, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + gymColumns

	row := r.pool.QueryRow(ctx, query, gym.Title, gym.Description, gym.Phone, gym.Latitude, gym.Longitude)
	created, err := scanGym(row)
	if err != nil {
		return nil, fmt.Errorf("create gym: %w", err)
	}
	return created, nil
}

func (r *GymRepository) FindByID(ctx context.Context, id string) (*domain.Gym, error) {
	if !validID(id) {
		return nil, domain.ErrGymNotFound
	}
	query := `SELECT ` + gymColumns + ` FROM gyms WHERE id = $1`
	return scanGym(r.pool.QueryRow(ctx, query, id))
}

func (r *GymRepository) SearchMany(ctx context.Context, query string, page int) ([]*domain.Gym, error) {
	sql := `
		SELECT ` + gymColumns + `
		FROM gyms
		WHERE title ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY title ASC, id ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, sql, escapeLike(query), repository.PageSize, repository.Offset(page))
	if err != nil {
		return nil, fmt.Errorf("search gyms: %w", err)
	}
	defer rows.Close()

	return collectGyms(rows)
}

func (r *GymRepository) FindManyNearby(ctx context.Context, from domain.Coordinate) ([]*domain.Gym, error) {
	query := `
		SELECT ` + gymColumns + `
		FROM (
			SELECT g.*, ` + haversineSQL + ` AS distance
			FROM gyms g,
			LATERAL (
				SELECT power(sin(radians(g.latitude::float8 - $1::float8) / 2), 2)
				     + cos(radians($1::float8)) * cos(radians(g.latitude::float8))
				     * power(sin(radians(g.longitude::float8 - $2::float8) / 2), 2) AS a
			) h
		) d
		WHERE d.distance <= $3::float8
		ORDER BY d.distance ASC, d.id ASC`

	rows, err := r.pool.Query(ctx, query, from.Latitude, from.Longitude, geo.NearbyRadiusKm+geo.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("find nearby gyms: %w", err)
	}
	defer rows.Close()

	return collectGyms(rows)
}

func collectGyms(rows pgx.Rows) ([]*domain.Gym, error) {
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
	var g domain.Gym
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Phone, &g.Latitude, &g.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGymNotFound
		}
		return nil, fmt.Errorf("scan gym: %w", err)
	}
	return &g, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
