// Package token issues and verifies the HS256 access tokens handed out after
// a successful authentication.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 24 * time.Hour

var ErrInvalid = errors.New("token is invalid or expired")

type Claims struct {
	UserID string
	Role   domain.Role
}

type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// Issue signs a token for user carrying its id as "sub" and its role.
func (i *Issuer) Issue(user *domain.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify parses raw and returns its claims, or ErrInvalid.
func (i *Issuer) Verify(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrInvalid
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = string(domain.RoleMember)
	}

	return Claims{UserID: userID, Role: domain.Role(role)}, nil
}
