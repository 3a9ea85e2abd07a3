// internal/common/auth/jwt.go

// Package auth issues and verifies the signed session tokens used by the
// API. Tokens travel either as an HTTP-only cookie or a bearer header.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"opera-backend/internal/common/errors"
)

// SessionClaims is the payload carried by every session token.
type SessionClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens with a shared HMAC secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the user and returns it with its expiry.
func (m *TokenManager) Issue(userID int64, username, role string) (string, time.Time, error) {
	expires := time.Now().Add(m.ttl)

	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(errors.ErrCodeInternal, "signing session token failed", err)
	}
	return token, expires, nil
}

// Verify parses and validates a raw token. Expired, tampered or
// wrongly-signed tokens all come back as UNAUTHORIZED.
func (m *TokenManager) Verify(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.ErrCodeUnauthorized, "unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid or expired session")
	}
	return claims, nil
}
