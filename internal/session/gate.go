package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"go.uber.org/zap"
)

// Route is the landing screen picked by the gate
type Route string

const (
	RouteLogin          Route = "login"
	RouteHome           Route = "home"
	RouteAdminDashboard Route = "admin-dashboard"
)

// Decision is the outcome of a gate check
type Decision struct {
	Route  Route
	User   entity.User
	Reason string
}

// Admitted reports whether the user got past the gate
func (d Decision) Admitted() bool {
	return d.Route != RouteLogin
}

// Gate validates the stored token at startup
type Gate struct {
	session *Session
	now     func() time.Time
	logger  *zap.Logger
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		g.now = now
	}
}

// NewGate creates a session gate
func NewGate(session *Session, logger *zap.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		session: session,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check reads the stored token and decides where the user lands. Undecodable
// and expired tokens clear the stored session. An admitted token is attached
// to the API client unchanged.
func (g *Gate) Check(ctx context.Context) (Decision, error) {
	token, err := g.session.stored(ctx, KeyAccessToken)
	if err != nil {
		return Decision{}, err
	}
	if token == "" {
		return Decision{Route: RouteLogin, Reason: "no stored token"}, nil
	}

	claims, err := DecodeToken(token)
	if err != nil {
		g.logger.Info("Stored token rejected", zap.Error(err))
		return g.reject(ctx, "token could not be decoded")
	}
	if claims.ExpiredAt(g.now()) {
		g.logger.Info("Stored token expired", zap.Time("expires_at", claims.ExpiresAt.Time))
		return g.reject(ctx, "token expired")
	}

	user := g.storedUser(ctx, claims)

	refresh, err := g.session.stored(ctx, KeyRefreshToken)
	if err != nil {
		return Decision{}, err
	}

	g.session.adopt(token, refresh, user)

	route := RouteHome
	if user.IsAdmin() {
		route = RouteAdminDashboard
	}
	return Decision{Route: route, User: user}, nil
}

func (g *Gate) reject(ctx context.Context, reason string) (Decision, error) {
	if err := g.session.Clear(ctx); err != nil {
		return Decision{}, err
	}
	return Decision{Route: RouteLogin, Reason: reason}, nil
}

// storedUser prefers the persisted user record and falls back to token claims
func (g *Gate) storedUser(ctx context.Context, claims *Claims) entity.User {
	raw, err := g.session.stored(ctx, KeyUser)
	if err == nil && raw != "" {
		var user entity.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			return user
		}
		g.logger.Warn("Stored user record is malformed, using token claims")
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	return entity.User{
		ID:       claims.UserID,
		Username: username,
		Role:     claims.Role,
	}
}
