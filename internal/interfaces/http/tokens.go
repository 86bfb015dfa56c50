package http

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for a token that fails verification
var ErrInvalidToken = errors.New("invalid token")

const refreshTokenMultiplier = 7

// TokenIssuer signs and verifies HS256 access and refresh tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]bool
}

// NewTokenIssuer creates a new TokenIssuer
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]bool),
	}
}

// Issue returns a signed access and refresh token pair for user
func (t *TokenIssuer) Issue(user entity.User) (string, string, error) {
	now := t.now()
	access, err := t.sign(user, now, now.Add(t.ttl))
	if err != nil {
		return "", "", err
	}
	refresh, err := t.sign(user, now, now.Add(refreshTokenMultiplier*t.ttl))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (t *TokenIssuer) sign(user entity.User, issued, expires time.Time) (string, error) {
	claims := session.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, the expiry and the revocation list
func (t *TokenIssuer) Verify(token string) (*session.Claims, error) {
	claims := &session.Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.revoked[claims.ID] {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}
	return claims, nil
}

// Revoke blacklists a refresh token so it cannot be used again
func (t *TokenIssuer) Revoke(token string) error {
	claims, err := t.Verify(token)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[claims.ID] = true
	return nil
}
