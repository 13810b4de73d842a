package clock_test

import (
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/clock"
)

func TestMock_SetAndAdvance(t *testing.T) {
	start := time.Date(2022, time.January, 20, 8, 0, 0, 0, time.UTC)
	c := clock.NewMock(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("now = %v, want %v", got, start)
	}

	c.Advance(24 * time.Hour)
	if got, want := c.Now(), start.AddDate(0, 0, 1); !got.Equal(want) {
		t.Errorf("after advance now = %v, want %v", got, want)
	}

	later := time.Date(2030, time.May, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("after set now = %v, want %v", got, later)
	}
}

func TestReal_IsCurrent(t *testing.T) {
	before := time.Now()
	got := clock.Real{}.Now()
	if got.Before(before) {
		t.Errorf("real clock %v is before %v", got, before)
	}
}
