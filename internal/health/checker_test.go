package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/gym-checkin/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(name string, p health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	return health.NewChecker(name, p, logger, reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker("postgres", &mockPinger{err: errors.New("db down")})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_StoreUp(t *testing.T) {
	c, reg := newTestChecker("postgres", &mockPinger{})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	pg, ok := result.Checks["postgres"]
	if !ok {
		t.Fatal("missing postgres check")
	}
	if pg.Status != "up" {
		t.Fatalf("expected postgres up, got %s", pg.Status)
	}

	if got := gaugeValue(t, reg, "postgres"); got != 1 {
		t.Fatalf("expected gauge 1, got %f", got)
	}
}

func TestReadiness_StoreDown(t *testing.T) {
	c, reg := newTestChecker("sqlite", health.PingFunc(func(context.Context) error {
		return errors.New("database is locked")
	}))

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	check := result.Checks["sqlite"]
	if check.Status != "down" {
		t.Fatalf("expected sqlite down, got %s", check.Status)
	}
	if check.Error == "" {
		t.Fatal("expected error message")
	}

	if got := gaugeValue(t, reg, "sqlite"); got != 0 {
		t.Fatalf("expected gauge 0, got %f", got)
	}
}

func TestReadiness_PingFuncAdapter(t *testing.T) {
	called := false
	c, _ := newTestChecker("memory", health.PingFunc(func(context.Context) error {
		called = true
		return nil
	}))

	if result := c.Readiness(context.Background()); result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if !called {
		t.Fatal("expected ping func to be called")
	}
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, dependency string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "gym_health_check_up" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == dependency {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric gym_health_check_up{dependency=%q} not found", dependency)
	return 0
}

func TestReadiness_GaugeCollects(t *testing.T) {
	c, reg := newTestChecker("postgres", &mockPinger{})
	c.Readiness(context.Background())

	n, err := testutil.GatherAndCount(reg, "gym_health_check_up")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 series, got %d", n)
	}
}
