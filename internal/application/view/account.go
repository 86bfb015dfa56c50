package view

import (
	"context"
	"sort"
	"strings"

	"github.com/garyjia/expense-dashboard/internal/application/port"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/pkg/utils"
	"go.uber.org/zap"
)

// ProfileView shows and edits the signed-in user's profile
type ProfileView struct {
	api    port.AccountAPI
	logger *zap.Logger

	profile entity.User
}

// NewProfileView creates a new ProfileView
func NewProfileView(api port.AccountAPI, logger *zap.Logger) *ProfileView {
	return &ProfileView{api: api, logger: logger}
}

// Load fetches the profile
func (v *ProfileView) Load(ctx context.Context) error {
	profile, err := v.api.Profile(ctx)
	if err != nil {
		v.logger.Error("Failed to load profile", zap.Error(err))
		return err
	}
	v.profile = *profile
	return nil
}

func (v *ProfileView) Profile() entity.User { return v.profile }

// Save updates the name and email. Both are checked before the request.
func (v *ProfileView) Save(ctx context.Context, name, email string) error {
	name = utils.SanitizeString(strings.TrimSpace(name))
	email = strings.TrimSpace(email)
	if err := utils.ValidateRequired("name", name); err != nil {
		return invalid("name", err)
	}
	if err := utils.ValidateEmail(email); err != nil {
		return invalid("email", err)
	}

	next := v.profile
	next.Name = name
	next.Email = email

	updated, err := v.api.UpdateProfile(ctx, next)
	if err != nil {
		v.logger.Error("Failed to update profile", zap.Error(err))
		return err
	}
	v.profile = *updated
	return nil
}

// NotificationsView lists the signed-in user's messages
type NotificationsView struct {
	api    port.AccountAPI
	logger *zap.Logger

	feed entity.NotificationFeed
}

// NewNotificationsView creates a new NotificationsView
func NewNotificationsView(api port.AccountAPI, logger *zap.Logger) *NotificationsView {
	return &NotificationsView{api: api, logger: logger}
}

// Load fetches the messages and sorts them newest first
func (v *NotificationsView) Load(ctx context.Context) error {
	feed, err := v.api.Notifications(ctx)
	if err != nil {
		v.logger.Error("Failed to load notifications", zap.Error(err))
		return err
	}

	sort.SliceStable(feed.Notifications, func(i, j int) bool {
		return feed.Notifications[i].CreatedAt.After(feed.Notifications[j].CreatedAt)
	})
	v.feed = *feed
	return nil
}

func (v *NotificationsView) Notifications() []entity.Notification { return v.feed.Notifications }

// UnreadCount is the server's count
func (v *NotificationsView) UnreadCount() int {
	return v.feed.UnreadCount
}
