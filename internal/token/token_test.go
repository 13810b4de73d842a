package token

import (
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "token-test-secret-at-least-32-chars!"

func TestIssueThenVerify_RoundTripsClaims(t *testing.T) {
	iss := NewIssuer([]byte(testKey), time.Hour)

	raw, err := iss.Issue(&domain.User{ID: "user-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := iss.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != domain.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerify_Expired(t *testing.T) {
	iss := NewIssuer([]byte(testKey), time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := iss.Issue(&domain.User{ID: "user-1", Role: domain.RoleMember})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewIssuer([]byte(testKey), time.Hour).Verify(raw); !errors.Is(err, ErrInvalid) {
		t.Errorf("want ErrInvalid, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	raw, _ := NewIssuer([]byte("another-secret-that-is-32-chars!!"), time.Hour).Issue(&domain.User{ID: "user-1"})

	if _, err := NewIssuer([]byte(testKey), time.Hour).Verify(raw); !errors.Is(err, ErrInvalid) {
		t.Errorf("want ErrInvalid, got %v", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	raw, _ := tok.SignedString([]byte(testKey))

	if _, err := NewIssuer([]byte(testKey), time.Hour).Verify(raw); !errors.Is(err, ErrInvalid) {
		t.Errorf("want ErrInvalid, got %v", err)
	}
}

func TestVerify_MissingRoleDefaultsToMember(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, _ := tok.SignedString([]byte(testKey))

	claims, err := NewIssuer([]byte(testKey), time.Hour).Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != domain.RoleMember {
		t.Errorf("role = %q, want MEMBER", claims.Role)
	}
}
