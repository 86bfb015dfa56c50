package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a token cannot be decoded
	ErrMalformedToken = errors.New("malformed token")

	// ErrNoExpiry is returned for tokens without an exp claim
	ErrNoExpiry = errors.New("token has no expiry claim")
)

// Claims are the access token fields the client reads. The signature is
// never verified here: the backend owns the key and rejects forged tokens.
type Claims struct {
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// DecodeToken parses a JWT without verifying it and returns its claims
func DecodeToken(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrNoExpiry
	}
	return claims, nil
}

// ExpiredAt reports whether the claims expire strictly before now
func (c *Claims) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.Time.Before(now)
}
