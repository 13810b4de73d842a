package metrics_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/gym-checkin/internal/health"
	"github.com/ErlanBelekov/gym-checkin/internal/metrics"
)

type fakeChecker struct {
	ready string
}

func (f *fakeChecker) Liveness(_ context.Context) health.HealthResult {
	return health.HealthResult{Status: "up"}
}

func (f *fakeChecker) Readiness(_ context.Context) health.HealthResult {
	return health.HealthResult{
		Status: f.ready,
		Checks: map[string]health.CheckResult{"postgres": {Status: f.ready}},
	}
}

func serve(t *testing.T, c *fakeChecker, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := metrics.NewServer(":0", c)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz_Returns200(t *testing.T) {
	w := serve(t, &fakeChecker{ready: "down"}, "/healthz")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestReadyz_Up_Returns200(t *testing.T) {
	w := serve(t, &fakeChecker{ready: "up"}, "/readyz")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	var got health.HealthResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Checks["postgres"].Status != "up" {
		t.Errorf("postgres check = %q, want up", got.Checks["postgres"].Status)
	}
}

func TestReadyz_Down_Returns503(t *testing.T) {
	w := serve(t, &fakeChecker{ready: "down"}, "/readyz")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestMetricsEndpoint_Serves(t *testing.T) {
	w := serve(t, &fakeChecker{ready: "up"}, "/metrics")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
