// Package repotest is the behavioural contract every repository
// implementation must satisfy. Each storage backend runs Run from its own
// tests so memory, sqlite and postgres stay interchangeable.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Stores struct {
	Users    repository.UserRepository
	Gyms     repository.GymRepository
	CheckIns repository.CheckInRepository
}

// Factory returns empty stores. It is called once per subtest.
type Factory func(t *testing.T) Stores

// Reference timezone used by the check-in tests; deliberately not UTC so
// day boundaries differ from the storage engine's default.
var saoPaulo = time.FixedZone("BRT", -3*60*60)

func Run(t *testing.T, newStores Factory) {
	t.Run("Users", func(t *testing.T) { runUsers(t, newStores) })
	t.Run("Gyms", func(t *testing.T) { runGyms(t, newStores) })
	t.Run("CheckIns", func(t *testing.T) { runCheckIns(t, newStores) })
}

func runUsers(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create assigns id and finds by email and id", func(t *testing.T) {
		s := newStores(t)

		created, err := s.Users.Create(ctx, &domain.User{
			Name:         "John Doe",
			Email:        "johndoe@example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.Equal(t, domain.RoleMember, created.Role)
		require.False(t, created.CreatedAt.IsZero())

		byEmail, err := s.Users.FindByEmail(ctx, "johndoe@example.com")
		require.NoError(t, err)
		require.Equal(t, created.ID, byEmail.ID)
		require.Equal(t, "John Doe", byEmail.Name)
		require.Equal(t, "hash", byEmail.PasswordHash)

		byID, err := s.Users.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, "johndoe@example.com", byID.Email)
	})

	t.Run("keeps given created_at", func(t *testing.T) {
		s := newStores(t)
		at := time.Date(2022, time.January, 20, 8, 0, 0, 0, time.UTC)

		created, err := s.Users.Create(ctx, &domain.User{
			Name: "John Doe", Email: "johndoe@example.com", PasswordHash: "hash", CreatedAt: at,
		})
		require.NoError(t, err)
		require.True(t, created.CreatedAt.Equal(at), "created_at %v != %v", created.CreatedAt, at)

		found, err := s.Users.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found.CreatedAt.Equal(at), "stored created_at %v != %v", found.CreatedAt, at)
	})

	t.Run("keeps requested role", func(t *testing.T) {
		s := newStores(t)

		created, err := s.Users.Create(ctx, &domain.User{
			Name: "Admin", Email: "admin@example.com", PasswordHash: "hash", Role: domain.RoleAdmin,
		})
		require.NoError(t, err)

		found, err := s.Users.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, found.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		s := newStores(t)

		_, err := s.Users.Create(ctx, &domain.User{Name: "A", Email: "dup@example.com", PasswordHash: "h"})
		require.NoError(t, err)

		_, err = s.Users.Create(ctx, &domain.User{Name: "B", Email: "dup@example.com", PasswordHash: "h"})
		require.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("email lookup is case sensitive", func(t *testing.T) {
		s := newStores(t)

		_, err := s.Users.Create(ctx, &domain.User{Name: "A", Email: "case@example.com", PasswordHash: "h"})
		require.NoError(t, err)

		_, err = s.Users.FindByEmail(ctx, "CASE@example.com")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		s := newStores(t)

		_, err := s.Users.FindByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = s.Users.FindByID(ctx, uuid.NewString())
		require.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = s.Users.FindByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func runGyms(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create assigns distinct ids", func(t *testing.T) {
		s := newStores(t)
		description := "Some description"

		seen := map[string]bool{}
		for i := 0; i < 3; i++ {
			g, err := s.Gyms.Create(ctx, &domain.Gym{
				Title:       "JavaScript Gym",
				Description: &description,
				Latitude:    -18.9384705,
				Longitude:   -48.3090628,
			})
			require.NoError(t, err)
			require.NotEmpty(t, g.ID)
			require.False(t, seen[g.ID], "id %s issued twice", g.ID)
			seen[g.ID] = true
		}
	})

	t.Run("find by id round-trips fields", func(t *testing.T) {
		s := newStores(t)
		phone := "11999999999"

		created, err := s.Gyms.Create(ctx, &domain.Gym{
			Title:     "TypeScript Gym",
			Phone:     &phone,
			Latitude:  -18.9230654,
			Longitude: -48.2939209,
		})
		require.NoError(t, err)

		found, err := s.Gyms.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, "TypeScript Gym", found.Title)
		require.Nil(t, found.Description)
		require.NotNil(t, found.Phone)
		require.Equal(t, phone, *found.Phone)
		require.InDelta(t, -18.9230654, found.Latitude, 1e-9)
		require.InDelta(t, -48.2939209, found.Longitude, 1e-9)
	})

	t.Run("missing gym", func(t *testing.T) {
		s := newStores(t)

		_, err := s.Gyms.FindByID(ctx, uuid.NewString())
		require.ErrorIs(t, err, domain.ErrGymNotFound)

		_, err = s.Gyms.FindByID(ctx, "gym-01")
		require.ErrorIs(t, err, domain.ErrGymNotFound)
	})

	t.Run("search is case insensitive substring", func(t *testing.T) {
		s := newStores(t)
		for _, title := range []string{"JavaScript Gym", "TypeScript Gym", "Java Fitness"} {
			_, err := s.Gyms.Create(ctx, &domain.Gym{Title: title, Latitude: 0, Longitude: 0})
			require.NoError(t, err)
		}

		gyms, err := s.Gyms.SearchMany(ctx, "javascript", 1)
		require.NoError(t, err)
		require.Len(t, gyms, 1)
		require.Equal(t, "JavaScript Gym", gyms[0].Title)

		gyms, err = s.Gyms.SearchMany(ctx, "SCRIPT", 1)
		require.NoError(t, err)
		require.Len(t, gyms, 2)
		require.Equal(t, "JavaScript Gym", gyms[0].Title)
		require.Equal(t, "TypeScript Gym", gyms[1].Title)

		gyms, err = s.Gyms.SearchMany(ctx, "100%", 1)
		require.NoError(t, err)
		require.Empty(t, gyms)
	})

	t.Run("search folds case of accented titles", func(t *testing.T) {
		s := newStores(t)
		for _, title := range []string{"ÁGIL Academia", "Academia Ágil Centro", "Agil Fit"} {
			_, err := s.Gyms.Create(ctx, &domain.Gym{Title: title, Latitude: 0, Longitude: 0})
			require.NoError(t, err)
		}

		gyms, err := s.Gyms.SearchMany(ctx, "ágil", 1)
		require.NoError(t, err)
		require.Len(t, gyms, 2)
		require.Equal(t, "Academia Ágil Centro", gyms[0].Title)
		require.Equal(t, "ÁGIL Academia", gyms[1].Title)

		gyms, err = s.Gyms.SearchMany(ctx, "AGIL", 1)
		require.NoError(t, err)
		require.Len(t, gyms, 1)
		require.Equal(t, "Agil Fit", gyms[0].Title)
	})

	t.Run("search is paginated", func(t *testing.T) {
		s := newStores(t)
		for i := 1; i <= repository.PageSize+2; i++ {
			_, err := s.Gyms.Create(ctx, &domain.Gym{
				Title: fmt.Sprintf("JavaScript Gym %02d", i), Latitude: 0, Longitude: 0,
			})
			require.NoError(t, err)
		}

		first, err := s.Gyms.SearchMany(ctx, "JavaScript", 1)
		require.NoError(t, err)
		require.Len(t, first, repository.PageSize)
		require.Equal(t, "JavaScript Gym 01", first[0].Title)

		second, err := s.Gyms.SearchMany(ctx, "JavaScript", 2)
		require.NoError(t, err)
		require.Len(t, second, 2)
		require.Equal(t, "JavaScript Gym 21", second[0].Title)
		require.Equal(t, "JavaScript Gym 22", second[1].Title)

		third, err := s.Gyms.SearchMany(ctx, "JavaScript", 3)
		require.NoError(t, err)
		require.Empty(t, third)
	})

	t.Run("nearby keeps gyms within radius closest first", func(t *testing.T) {
		s := newStores(t)

		far, err := s.Gyms.Create(ctx, &domain.Gym{Title: "Far Gym", Latitude: -19.7833116, Longitude: -47.9984856})
		require.NoError(t, err)
		near, err := s.Gyms.Create(ctx, &domain.Gym{Title: "Near Gym", Latitude: -18.9230654, Longitude: -48.2939209})
		require.NoError(t, err)
		here, err := s.Gyms.Create(ctx, &domain.Gym{Title: "Here Gym", Latitude: -18.9384705, Longitude: -48.3090628})
		require.NoError(t, err)

		from, err := domain.NewCoordinate(-18.9384705, -48.3090628)
		require.NoError(t, err)

		gyms, err := s.Gyms.FindManyNearby(ctx, from)
		require.NoError(t, err)
		require.Len(t, gyms, 2)
		require.Equal(t, here.ID, gyms[0].ID)
		require.Equal(t, near.ID, gyms[1].ID)
		for _, g := range gyms {
			require.NotEqual(t, far.ID, g.ID)
		}
	})

	t.Run("nearby with no gyms is empty", func(t *testing.T) {
		s := newStores(t)

		gyms, err := s.Gyms.FindManyNearby(ctx, domain.Coordinate{})
		require.NoError(t, err)
		require.Empty(t, gyms)
	})
}

func runCheckIns(t *testing.T, newStores Factory) {
	ctx := context.Background()

	seed := func(t *testing.T, s Stores) (*domain.User, *domain.Gym) {
		t.Helper()
		u, err := s.Users.Create(ctx, &domain.User{
			Name: "John Doe", Email: uuid.NewString() + "@example.com", PasswordHash: "h",
		})
		require.NoError(t, err)
		g, err := s.Gyms.Create(ctx, &domain.Gym{Title: "JavaScript Gym", Latitude: -18.9384705, Longitude: -48.3090628})
		require.NoError(t, err)
		return u, g
	}

	t.Run("create and find on the same day", func(t *testing.T) {
		s := newStores(t)
		u, g := seed(t, s)
		at := time.Date(2022, time.January, 20, 8, 0, 0, 0, saoPaulo)

		created, err := s.CheckIns.Create(ctx, &domain.CheckIn{UserID: u.ID, GymID: g.ID, CreatedAt: at})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.Nil(t, created.ValidatedAt)

		found, err := s.CheckIns.FindByUserIDOnDate(ctx, u.ID, time.Date(2022, time.January, 20, 23, 59, 59, 0, saoPaulo))
		require.NoError(t, err)
		require.Equal(t, created.ID, found.ID)
		require.Equal(t, g.ID, found.GymID)
		require.True(t, found.CreatedAt.Equal(at), "created_at %v != %v", found.CreatedAt, at)
	})

	t.Run("day boundary follows the caller's timezone", func(t *testing.T) {
		s := newStores(t)
		u, g := seed(t, s)

		// 23:30 in São Paulo is already the next day in UTC.
		lateEvening := time.Date(2022, time.January, 20, 23, 30, 0, 0, saoPaulo)
		_, err := s.CheckIns.Create(ctx, &domain.CheckIn{UserID: u.ID, GymID: g.ID, CreatedAt: lateEvening})
		require.NoError(t, err)

		_, err = s.CheckIns.FindByUserIDOnDate(ctx, u.ID, time.Date(2022, time.January, 20, 0, 0, 0, 0, saoPaulo))
		require.NoError(t, err)

		_, err = s.CheckIns.FindByUserIDOnDate(ctx, u.ID, time.Date(2022, time.January, 21, 0, 0, 0, 0, saoPaulo))
		require.ErrorIs(t, err, domain.ErrCheckInNotFound)

		nextMorning := time.Date(2022, time.January, 21, 0, 1, 0, 0, saoPaulo)
		_, err = s.CheckIns.Create(ctx, &domain.CheckIn{UserID: u.ID, GymID: g.ID, CreatedAt: nextMorning})
		require.NoError(t, err)
	})

	t.Run("second create on the same day is rejected", func(t *testing.T) {
		s := newStores(t)
		u, g := seed(t, s)

		_, err := s.CheckIns.Create(ctx, &domain.CheckIn{
			UserID: u.ID, GymID: g.ID, CreatedAt: time.Date(2022, time.January, 20, 8, 0, 0, 0, saoPaulo),
		})
		require.NoError(t, err)

		_, err = s.CheckIns.Create(ctx, &domain.CheckIn{
			UserID: u.ID, GymID: g.ID, CreatedAt: time.Date(2022, time.January, 20, 18, 0, 0, 0, saoPaulo),
		})
		require.ErrorIs(t, err, domain.ErrMaxNumberOfCheckIns)

		count, err := s.CheckIns.CountByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("no check-in for user", func(t *testing.T) {
		s := newStores(t)
		u, _ := seed(t, s)

		_, err := s.CheckIns.FindByUserIDOnDate(ctx, u.ID, time.Date(2022, time.January, 20, 8, 0, 0, 0, saoPaulo))
		require.ErrorIs(t, err, domain.ErrCheckInNotFound)

		count, err := s.CheckIns.CountByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Zero(t, count)

		history, err := s.CheckIns.FindManyByUserID(ctx, u.ID, 1)
		require.NoError(t, err)
		require.Empty(t, history)
	})

	t.Run("history is paginated newest first and scoped to the user", func(t *testing.T) {
		s := newStores(t)
		u, g := seed(t, s)
		other, _ := seed(t, s)

		start := time.Date(2022, time.January, 1, 10, 0, 0, 0, saoPaulo)
		for i := 0; i < repository.PageSize+2; i++ {
			_, err := s.CheckIns.Create(ctx, &domain.CheckIn{UserID: u.ID, GymID: g.ID, CreatedAt: start.AddDate(0, 0, i)})
			require.NoError(t, err)
		}
		_, err := s.CheckIns.Create(ctx, &domain.CheckIn{UserID: other.ID, GymID: g.ID, CreatedAt: start})
		require.NoError(t, err)

		count, err := s.CheckIns.CountByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, repository.PageSize+2, count)

		first, err := s.CheckIns.FindManyByUserID(ctx, u.ID, 1)
		require.NoError(t, err)
		require.Len(t, first, repository.PageSize)
		require.True(t, first[0].CreatedAt.Equal(start.AddDate(0, 0, repository.PageSize+1)))

		second, err := s.CheckIns.FindManyByUserID(ctx, u.ID, 2)
		require.NoError(t, err)
		require.Len(t, second, 2)
		require.True(t, second[1].CreatedAt.Equal(start))
		for _, c := range append(first, second...) {
			require.Equal(t, u.ID, c.UserID)
		}
	})
}
