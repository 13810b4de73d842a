package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func newLimitedEngine(burst int) *gin.Engine {
	rl := middleware.NewRateLimiter(0.001, burst, slog.Default())

	r := gin.New()
	r.POST("/sessions", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(engine *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.RemoteAddr = remoteAddr
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstThenRejects(t *testing.T) {
	engine := newLimitedEngine(2)

	for i := 0; i < 2; i++ {
		if w := post(engine, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	w := post(engine, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestRateLimiter_PerClientIP(t *testing.T) {
	engine := newLimitedEngine(1)

	if w := post(engine, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first client: status = %d, want 200", w.Code)
	}
	if w := post(engine, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", w.Code)
	}
}
