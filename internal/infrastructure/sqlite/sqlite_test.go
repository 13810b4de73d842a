package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ErlanBelekov/gym-checkin/internal/repository/repotest"
	"github.com/stretchr/testify/require"
)

func TestRepositoriesConformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Stores {
		db, err := Open(filepath.Join(t.TempDir(), "data", "gyms.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		require.NoError(t, Init(context.Background(), db))

		return repotest.Stores{
			Users:    NewUserRepository(db),
			Gyms:     NewGymRepository(db),
			CheckIns: NewCheckInRepository(db),
		}
	})
}

func TestInitIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "gyms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Init(ctx, db))
	require.NoError(t, Init(ctx, db))
}
