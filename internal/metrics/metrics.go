package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/gym-checkin/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Business metrics

	CheckInsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "check_ins_total",
		Help:      "Check-in attempts, by outcome.",
	}, []string{"outcome"})

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "registrations_total",
		Help:      "Users successfully registered.",
	})

	AuthenticationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "authentications_total",
		Help:      "Session requests, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gym",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gym",
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})
)

// Check-in outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
	OutcomeDuplicate = "duplicate"
)

func Register() {
	prometheus.MustRegister(
		CheckInsTotal,
		RegistrationsTotal,
		AuthenticationsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
		HTTPRequestsInFlight,
	)
}

type checker interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

// NewServer serves /metrics, /healthz and /readyz on a separate port.
func NewServer(addr string, c checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, c.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, c.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	status := http.StatusOK
	if result.Status != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
