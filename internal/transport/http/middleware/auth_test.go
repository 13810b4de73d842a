package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/token"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine protects GET /protected with Auth and GET /admin with Auth+RequireRole.
// Handlers echo the user ID and role from context so we can assert they were set.
func newEngine() *gin.Engine {
	auth := middleware.Auth(token.NewIssuer([]byte(testKey), time.Hour))

	r := gin.New()
	r.GET("/protected", auth, func(c *gin.Context) {
		c.String(http.StatusOK, "%s:%s", middleware.UserID(c), middleware.Role(c))
	})
	r.GET("/admin", auth, middleware.RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func issue(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, err := token.NewIssuer([]byte(testKey), time.Hour).Issue(&domain.User{ID: "user-abc", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func makeJWT(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return s
}

func get(engine *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	engine.ServeHTTP(w, req)
	return w
}

// ---- Auth ----

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	w := get(newEngine(), "/protected", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	w := get(newEngine(), "/protected", "Basic dXNlcjpwYXNz")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	w := get(newEngine(), "/protected", "Bearer not.a.jwt")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ExpiredToken_Returns401(t *testing.T) {
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
	})

	w := get(newEngine(), "/protected", "Bearer "+tok)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_WrongSigningKey_Returns401(t *testing.T) {
	tok := makeJWT(t, []byte("different-key-that-is-32-chars!!"), jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := get(newEngine(), "/protected", "Bearer "+tok)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_PassesAndSetsUserAndRole(t *testing.T) {
	w := get(newEngine(), "/protected", "Bearer "+issue(t, domain.RoleMember))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got, want := w.Body.String(), "user-abc:MEMBER"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

// ---- RequireRole ----

func TestRequireRole_Member_Returns403(t *testing.T) {
	w := get(newEngine(), "/admin", "Bearer "+issue(t, domain.RoleMember))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireRole_Admin_Passes(t *testing.T) {
	w := get(newEngine(), "/admin", "Bearer "+issue(t, domain.RoleAdmin))

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

func TestRequireRole_Unauthenticated_Returns401(t *testing.T) {
	w := get(newEngine(), "/admin", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
