package session

import (
	"context"
	"sync"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/infrastructure/persistence/localstore"
)

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryKV(initial map[string]string) *memoryKV {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &memoryKV{values: values}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", localstore.ErrNotFound
	}
	return v, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryKV) Remove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryKV) snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

type mockTokenHolder struct {
	token   string
	cleared int
}

func (m *mockTokenHolder) SetToken(token string) { m.token = token }
func (m *mockTokenHolder) ClearToken() {
	m.token = ""
	m.cleared++
}

type mockAuthenticator struct {
	loginFunc  func(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error)
	logoutFunc func(ctx context.Context, refresh string) error
}

func (m *mockAuthenticator) Login(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error) {
	return m.loginFunc(ctx, creds)
}

func (m *mockAuthenticator) Logout(ctx context.Context, refresh string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, refresh)
	}
	return nil
}
