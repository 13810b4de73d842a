package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/repository/memory"
)

func TestCheckInRepository_ConcurrentSameDayCreatesOnlyOneWins(t *testing.T) {
	repo := memory.NewCheckInRepository()
	at := time.Date(2022, time.January, 20, 8, 0, 0, 0, time.UTC)

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), &domain.CheckIn{UserID: "user-01", GymID: "gym-01", CreatedAt: at})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrMaxNumberOfCheckIns):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != attempts-1 {
		t.Errorf("succeeded=%d rejected=%d, want 1 and %d", succeeded, rejected, attempts-1)
	}
}
