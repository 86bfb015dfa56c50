package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

// Notifications returns the current user's notifications and unread count
func (c *Client) Notifications(ctx context.Context) (*entity.NotificationFeed, error) {
	var feed entity.NotificationFeed
	if err := c.doJSON(ctx, http.MethodGet, "/notifications/", nil, nil, &feed); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return &feed, nil
}

// Profile returns the current user's profile
func (c *Client) Profile(ctx context.Context) (*entity.User, error) {
	var user entity.User
	if err := c.doJSON(ctx, http.MethodGet, "/profile/", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile saves name and email changes
func (c *Client) UpdateProfile(ctx context.Context, user entity.User) (*entity.User, error) {
	var updated entity.User
	if err := c.doJSON(ctx, http.MethodPut, "/profile/", nil, user, &updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &updated, nil
}
