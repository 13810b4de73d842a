package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/token"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

const testKey = "handler-test-secret-that-is-32-chars"

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	testTokens = token.NewIssuer([]byte(testKey), time.Hour)
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authMW() gin.HandlerFunc {
	return middleware.Auth(testTokens)
}

func bearer(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	tok, err := testTokens.Issue(&domain.User{ID: userID, Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func do(r *gin.Engine, method, path, body, authorization string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	if got := decode(t, w)["code"]; got != code {
		t.Errorf("code = %v, want %q", got, code)
	}
}

func strPtr(s string) *string { return &s }
