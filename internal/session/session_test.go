package session

import (
	"context"
	"errors"
	"testing"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSession_LoginPersists(t *testing.T) {
	kv := newMemoryKV(nil)
	holder := &mockTokenHolder{}
	sess := New(kv, holder, zap.NewNop())

	auth := &mockAuthenticator{
		loginFunc: func(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error) {
			assert.Equal(t, "ana", creds.Username)
			return &entity.AuthResponse{
				Access:  "access-token",
				Refresh: "refresh-token",
				User:    entity.User{Username: "ana", Role: entity.RoleAdmin},
			}, nil
		},
	}

	user, err := sess.Login(context.Background(), auth, entity.Credentials{Username: "ana", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, "access-token", holder.token)
	assert.Equal(t, "access-token", sess.Token())
	assert.True(t, sess.IsAdmin())

	stored := kv.snapshot()
	assert.Equal(t, "access-token", stored[KeyAccessToken])
	assert.Equal(t, "refresh-token", stored[KeyRefreshToken])
	assert.JSONEq(t, `{"username":"ana","role":"admin"}`, stored[KeyUser])
}

func TestSession_LoginFailureLeavesNothing(t *testing.T) {
	kv := newMemoryKV(nil)
	holder := &mockTokenHolder{}
	sess := New(kv, holder, zap.NewNop())

	auth := &mockAuthenticator{
		loginFunc: func(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error) {
			return nil, errors.New("bad credentials")
		},
	}

	_, err := sess.Login(context.Background(), auth, entity.Credentials{Username: "ana"})
	require.Error(t, err)

	assert.Empty(t, kv.snapshot())
	assert.Empty(t, holder.token)
	_, ok := sess.User()
	assert.False(t, ok)
}

func TestSession_LogoutAlwaysClears(t *testing.T) {
	kv := newMemoryKV(nil)
	holder := &mockTokenHolder{}
	sess := New(kv, holder, zap.NewNop())
	require.NoError(t, sess.Establish(context.Background(), &entity.AuthResponse{
		Access: "a", Refresh: "r", User: entity.User{Username: "ana", Role: entity.RoleUser},
	}))

	remoteErr := errors.New("backend down")
	auth := &mockAuthenticator{
		logoutFunc: func(ctx context.Context, refresh string) error {
			assert.Equal(t, "r", refresh)
			return remoteErr
		},
	}

	err := sess.Logout(context.Background(), auth)
	assert.ErrorIs(t, err, remoteErr)
	assert.Empty(t, kv.snapshot())
	assert.Empty(t, holder.token)
	assert.Empty(t, sess.Token())
}

func TestSession_EstablishRejectsEmptyToken(t *testing.T) {
	sess := New(newMemoryKV(nil), &mockTokenHolder{}, zap.NewNop())
	err := sess.Establish(context.Background(), &entity.AuthResponse{})
	assert.ErrorIs(t, err, ErrMalformedToken)
}
