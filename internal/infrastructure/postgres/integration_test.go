//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/repository/repotest"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestRepositoriesConformance(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("gym_checkin"),
		postgrescontainer.WithUsername("gym"),
		postgrescontainer.WithPassword("gym"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool := waitForPool(t, ctx, connStr)
	t.Cleanup(pool.Close)

	migrator := NewMigrator(connStr, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, migrator.Up(ctx))

	repotest.Run(t, func(t *testing.T) repotest.Stores {
		_, err := pool.Exec(ctx, `TRUNCATE check_ins, gyms, users`)
		require.NoError(t, err)

		return repotest.Stores{
			Users:    NewUserRepository(pool),
			Gyms:     NewGymRepository(pool),
			CheckIns: NewCheckInRepository(pool),
		}
	})
}

func TestMigratorDownAndUp(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("gym_checkin"),
		postgrescontainer.WithUsername("gym"),
		postgrescontainer.WithPassword("gym"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool := waitForPool(t, ctx, connStr)
	t.Cleanup(pool.Close)

	migrator := NewMigrator(connStr, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, migrator.Up(ctx))
	require.NoError(t, migrator.Status(ctx))

	require.NoError(t, migrator.Down(ctx, 0))
	var exists bool
	require.NoError(t, pool.QueryRow(ctx, `SELECT to_regclass('check_ins') IS NOT NULL`).Scan(&exists))
	require.False(t, exists)

	require.NoError(t, migrator.Up(ctx))
	require.NoError(t, pool.QueryRow(ctx, `SELECT to_regclass('check_ins') IS NOT NULL`).Scan(&exists))
	require.True(t, exists)
}

func waitForPool(t *testing.T, ctx context.Context, connStr string) *pgxpool.Pool {
	t.Helper()

	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := NewPool(ctx, connStr)
		if err == nil {
			return pool
		}
		if time.Now().After(deadline) {
			require.NoError(t, err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}
