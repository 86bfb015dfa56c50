// Package session holds the authenticated user's token and role. Session is
// the only writer of the persisted keys; views read it through Reader.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/infrastructure/persistence/localstore"
	"go.uber.org/zap"
)

// Persisted keys
const (
	KeyAccessToken  = "access_token"
	KeyUser         = "user"
	KeyRefreshToken = "refresh_token"
)

// KV is the persisted key-value state
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// TokenHolder receives the bearer token; the API client implements it
type TokenHolder interface {
	SetToken(token string)
	ClearToken()
}

// Authenticator performs the backend half of login and logout
type Authenticator interface {
	Login(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error)
	Logout(ctx context.Context, refresh string) error
}

// Reader is the read-only view of the session handed to screens
type Reader interface {
	Token() string
	User() (entity.User, bool)
	IsAdmin() bool
}

// Session is the single writer of authentication state
type Session struct {
	store  KV
	tokens TokenHolder
	logger *zap.Logger

	mu      sync.RWMutex
	token   string
	refresh string
	user    *entity.User
}

// New creates an empty session. Call Gate.Check to restore a stored one.
func New(store KV, tokens TokenHolder, logger *zap.Logger) *Session {
	return &Session{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Token returns the access token, or "" when signed out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user
func (s *Session) User() (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entity.User{}, false
	}
	return *s.user, true
}

// IsAdmin reports whether the signed-in user has the admin role
func (s *Session) IsAdmin() bool {
	user, ok := s.User()
	return ok && user.IsAdmin()
}

// Login authenticates against the backend and persists the result
func (s *Session) Login(ctx context.Context, auth Authenticator, creds entity.Credentials) (entity.User, error) {
	resp, err := auth.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("Login failed", zap.String("username", creds.Username), zap.Error(err))
		return entity.User{}, err
	}
	if err := s.Establish(ctx, resp); err != nil {
		return entity.User{}, err
	}
	return resp.User, nil
}

// Establish persists an auth response (from login or register) and attaches its token
func (s *Session) Establish(ctx context.Context, resp *entity.AuthResponse) error {
	if resp == nil || resp.Access == "" {
		return fmt.Errorf("%w: empty access token", ErrMalformedToken)
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := s.store.Set(ctx, KeyAccessToken, resp.Access); err != nil {
		return err
	}
	if err := s.store.Set(ctx, KeyUser, string(userJSON)); err != nil {
		return err
	}
	if resp.Refresh != "" {
		if err := s.store.Set(ctx, KeyRefreshToken, resp.Refresh); err != nil {
			return err
		}
	}

	s.adopt(resp.Access, resp.Refresh, resp.User)

	s.logger.Info("Session established",
		zap.String("username", resp.User.Username),
		zap.String("role", resp.User.Role))
	return nil
}

// Logout tells the backend (best effort) and always clears local state
func (s *Session) Logout(ctx context.Context, auth Authenticator) error {
	s.mu.RLock()
	refresh := s.refresh
	s.mu.RUnlock()

	var remoteErr error
	if auth != nil && refresh != "" {
		if err := auth.Logout(ctx, refresh); err != nil {
			s.logger.Warn("Backend logout failed", zap.Error(err))
			remoteErr = err
		}
	}

	if err := s.Clear(ctx); err != nil {
		return err
	}
	return remoteErr
}

// Clear removes every persisted key and detaches the token
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.refresh = ""
	s.user = nil
	s.mu.Unlock()

	s.tokens.ClearToken()

	if err := s.store.Remove(ctx, KeyAccessToken, KeyUser, KeyRefreshToken); err != nil {
		s.logger.Error("Failed to clear stored session", zap.Error(err))
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Session) adopt(token, refresh string, user entity.User) {
	s.mu.Lock()
	s.token = token
	s.refresh = refresh
	s.user = &user
	s.mu.Unlock()

	s.tokens.SetToken(token)
}

// stored reads a key, mapping a missing key to ""
func (s *Session) stored(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, localstore.ErrNotFound) {
		return "", nil
	}
	return value, err
}
