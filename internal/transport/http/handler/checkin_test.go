package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/metrics"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/handler"
	"github.com/ErlanBelekov/gym-checkin/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeCheckInUsecase struct {
	checkIn        func(ctx context.Context, input usecase.CheckInInput) (*domain.CheckIn, error)
	fetchHistory   func(ctx context.Context, input usecase.CheckInHistoryInput) ([]*domain.CheckIn, error)
	getUserMetrics func(ctx context.Context, userID string) (int, error)
}

func (f *fakeCheckInUsecase) CheckIn(ctx context.Context, input usecase.CheckInInput) (*domain.CheckIn, error) {
	return f.checkIn(ctx, input)
}

func (f *fakeCheckInUsecase) FetchUserCheckInsHistory(ctx context.Context, input usecase.CheckInHistoryInput) ([]*domain.CheckIn, error) {
	return f.fetchHistory(ctx, input)
}

func (f *fakeCheckInUsecase) GetUserMetrics(ctx context.Context, userID string) (int, error) {
	return f.getUserMetrics(ctx, userID)
}

func newCheckInEngine(uc *fakeCheckInUsecase) *gin.Engine {
	h := handler.NewCheckInHandler(uc, testLogger)

	r := gin.New()
	r.POST("/gyms/:gymId/check-ins", authMW(), h.Create)
	r.GET("/check-ins/history", authMW(), h.History)
	r.GET("/check-ins/metrics", authMW(), h.Metrics)
	return r
}

const checkInBody = `{"latitude":-18.9384705,"longitude":-48.3090628}`

// ---- Create ----

func TestCheckIn_Success_Returns201(t *testing.T) {
	var got usecase.CheckInInput
	uc := &fakeCheckInUsecase{
		checkIn: func(_ context.Context, input usecase.CheckInInput) (*domain.CheckIn, error) {
			got = input
			return &domain.CheckIn{
				ID: "check-in-1", UserID: input.UserID, GymID: input.GymID,
				CreatedAt: time.Date(2022, time.January, 20, 8, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	success := metrics.CheckInsTotal.WithLabelValues(metrics.OutcomeSuccess)
	before := testutil.ToFloat64(success)

	w := do(newCheckInEngine(uc), http.MethodPost, "/gyms/gym-01/check-ins", checkInBody,
		bearer(t, "user-01", domain.RoleMember))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	want := usecase.CheckInInput{GymID: "gym-01", UserID: "user-01", UserLatitude: -18.9384705, UserLongitude: -48.3090628}
	if got != want {
		t.Errorf("input = %+v, want %+v", got, want)
	}
	if delta := testutil.ToFloat64(success) - before; delta != 1 {
		t.Errorf("success counter delta = %v, want 1", delta)
	}
}

func TestCheckIn_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"gym not found", domain.ErrResourceNotFound, http.StatusNotFound, "ResourceNotFoundError"},
		{"too far", domain.ErrMaxDistance, http.StatusBadRequest, "MaxDistanceError"},
		{"twice in a day", domain.ErrMaxNumberOfCheckIns, http.StatusConflict, "MaxNumberOfCheckInsError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeCheckInUsecase{
				checkIn: func(_ context.Context, _ usecase.CheckInInput) (*domain.CheckIn, error) {
					return nil, tt.err
				},
			}

			w := do(newCheckInEngine(uc), http.MethodPost, "/gyms/gym-01/check-ins", checkInBody,
				bearer(t, "user-01", domain.RoleMember))

			assertError(t, w, tt.status, tt.code)
		})
	}
}

func TestCheckIn_InternalError_Returns500(t *testing.T) {
	uc := &fakeCheckInUsecase{
		checkIn: func(_ context.Context, _ usecase.CheckInInput) (*domain.CheckIn, error) {
			return nil, errors.New("connection reset")
		},
	}
	failures := metrics.CheckInsTotal.WithLabelValues(metrics.OutcomeError)
	before := testutil.ToFloat64(failures)

	w := do(newCheckInEngine(uc), http.MethodPost, "/gyms/gym-01/check-ins", checkInBody,
		bearer(t, "user-01", domain.RoleMember))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if delta := testutil.ToFloat64(failures) - before; delta != 1 {
		t.Errorf("error counter delta = %v, want 1", delta)
	}
}

func TestCheckIn_MissingCoordinates_Returns400(t *testing.T) {
	w := do(newCheckInEngine(&fakeCheckInUsecase{}), http.MethodPost, "/gyms/gym-01/check-ins", `{}`,
		bearer(t, "user-01", domain.RoleMember))

	assertError(t, w, http.StatusBadRequest, "ValidationError")
}

// ---- History ----

func TestHistory_PassesUserAndPage(t *testing.T) {
	var got usecase.CheckInHistoryInput
	uc := &fakeCheckInUsecase{
		fetchHistory: func(_ context.Context, input usecase.CheckInHistoryInput) ([]*domain.CheckIn, error) {
			got = input
			return []*domain.CheckIn{{ID: "c-1", UserID: input.UserID, GymID: "gym-01"}}, nil
		},
	}

	w := do(newCheckInEngine(uc), http.MethodGet, "/check-ins/history?page=2", "",
		bearer(t, "user-01", domain.RoleMember))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got.UserID != "user-01" || got.Page != 2 {
		t.Errorf("input = %+v, want {user-01 2}", got)
	}
	if list, _ := decode(t, w)["check_ins"].([]any); len(list) != 1 {
		t.Errorf("check_ins = %v, want 1 item", list)
	}
}

// ---- Metrics ----

func TestMetrics_ReturnsCount(t *testing.T) {
	uc := &fakeCheckInUsecase{
		getUserMetrics: func(_ context.Context, userID string) (int, error) {
			if userID != "user-01" {
				t.Errorf("userID = %q, want user-01", userID)
			}
			return 7, nil
		},
	}

	w := do(newCheckInEngine(uc), http.MethodGet, "/check-ins/metrics", "", bearer(t, "user-01", domain.RoleMember))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decode(t, w)["check_ins_count"]; got != float64(7) {
		t.Errorf("check_ins_count = %v, want 7", got)
	}
}
