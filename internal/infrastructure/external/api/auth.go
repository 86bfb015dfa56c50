package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

// Login exchanges credentials for an access token and the user record
func (c *Client) Login(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error) {
	var resp entity.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login/", nil, creds, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Access == "" {
		return nil, fmt.Errorf("login: response carried no access token")
	}
	return &resp, nil
}

// Register creates an account. The backend logs the new user in.
func (c *Client) Register(ctx context.Context, reg entity.Registration) (*entity.AuthResponse, error) {
	var resp entity.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/register/", nil, reg, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

// Logout invalidates the refresh token server-side
func (c *Client) Logout(ctx context.Context, refresh string) error {
	body := map[string]string{"refresh": refresh}
	if err := c.doJSON(ctx, http.MethodPost, "/logout/", nil, body, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
