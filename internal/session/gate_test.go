package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var gateNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func tokenExpiring(t *testing.T, exp time.Time, role string) string {
	return signToken(t, Claims{
		Username: "ana",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
}

func newTestGate(kv *memoryKV) (*Gate, *mockTokenHolder) {
	holder := &mockTokenHolder{}
	sess := New(kv, holder, zap.NewNop())
	return NewGate(sess, zap.NewNop(), WithClock(func() time.Time { return gateNow })), holder
}

func TestGate_NoToken(t *testing.T) {
	kv := newMemoryKV(map[string]string{KeyUser: `{"username":"ana","role":"user"}`})
	gate, holder := newTestGate(kv)

	decision, err := gate.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, RouteLogin, decision.Route)
	assert.False(t, decision.Admitted())
	assert.Empty(t, holder.token)
}

func TestGate_RejectsAndClears(t *testing.T) {
	tests := []struct {
		name   string
		token  func(t *testing.T) string
		reason string
	}{
		{
			name:   "expired token",
			token:  func(t *testing.T) string { return tokenExpiring(t, gateNow.Add(-time.Minute), "admin") },
			reason: "token expired",
		},
		{
			name:   "malformed token",
			token:  func(t *testing.T) string { return "not-a-jwt" },
			reason: "token could not be decoded",
		},
		{
			name: "token without expiry",
			token: func(t *testing.T) string {
				return signToken(t, Claims{Username: "ana", Role: "admin"})
			},
			reason: "token could not be decoded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemoryKV(map[string]string{
				KeyAccessToken:  tt.token(t),
				KeyUser:         `{"username":"ana","role":"admin"}`,
				KeyRefreshToken: "refresh",
			})
			gate, holder := newTestGate(kv)

			decision, err := gate.Check(context.Background())
			require.NoError(t, err)

			assert.Equal(t, RouteLogin, decision.Route)
			assert.Equal(t, tt.reason, decision.Reason)
			assert.Empty(t, kv.snapshot())
			assert.Empty(t, holder.token)
			assert.Equal(t, 1, holder.cleared)
		})
	}
}

func TestGate_AdmitsFutureToken(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		route Route
	}{
		{name: "admin lands on dashboard", user: `{"username":"ana","role":"admin"}`, route: RouteAdminDashboard},
		{name: "standard user lands on home", user: `{"username":"bo","role":"user"}`, route: RouteHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tokenExpiring(t, gateNow.Add(time.Hour), "")
			stored := map[string]string{KeyAccessToken: token, KeyUser: tt.user}
			kv := newMemoryKV(stored)
			gate, holder := newTestGate(kv)

			decision, err := gate.Check(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.route, decision.Route)
			assert.True(t, decision.Admitted())
			assert.Equal(t, token, holder.token)
			assert.Equal(t, stored, kv.snapshot(), "admitted token must not be altered")
			assert.Equal(t, token, gate.session.Token())
		})
	}
}

func TestGate_FallsBackToClaims(t *testing.T) {
	token := tokenExpiring(t, gateNow.Add(time.Hour), "admin")
	kv := newMemoryKV(map[string]string{KeyAccessToken: token, KeyUser: "{broken"})
	gate, _ := newTestGate(kv)

	decision, err := gate.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, RouteAdminDashboard, decision.Route)
	assert.Equal(t, "ana", decision.User.Username)
	assert.True(t, gate.session.IsAdmin())
}

func TestDecodeToken(t *testing.T) {
	exp := gateNow.Add(time.Hour)
	claims, err := DecodeToken(tokenExpiring(t, exp, "admin"))
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Role)
	assert.False(t, claims.ExpiredAt(gateNow))
	assert.True(t, claims.ExpiredAt(exp.Add(time.Second)))

	_, err = DecodeToken("a.b.c")
	assert.ErrorIs(t, err, ErrMalformedToken)
}
