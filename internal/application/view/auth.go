package view

import (
	"context"
	"errors"
	"strings"

	"github.com/garyjia/expense-dashboard/internal/application/port"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/garyjia/expense-dashboard/pkg/utils"
	"go.uber.org/zap"
)

// LoginView is the sign-in form
type LoginView struct {
	session *session.Session
	auth    port.AuthAPI
	logger  *zap.Logger
}

// NewLoginView creates a new LoginView
func NewLoginView(s *session.Session, auth port.AuthAPI, logger *zap.Logger) *LoginView {
	return &LoginView{session: s, auth: auth, logger: logger}
}

// Submit signs in and returns where the user lands
func (v *LoginView) Submit(ctx context.Context, username, password string) (session.Route, error) {
	username = strings.TrimSpace(username)
	if err := utils.ValidateRequired("username", username); err != nil {
		return session.RouteLogin, invalid("username", err)
	}
	if err := utils.ValidateRequired("password", password); err != nil {
		return session.RouteLogin, invalid("password", err)
	}

	v.logger.Debug("Submitting login", zap.String("username", username))
	user, err := v.session.Login(ctx, v.auth, entity.Credentials{Username: username, Password: password})
	if err != nil {
		return session.RouteLogin, err
	}
	return landingRoute(user), nil
}

// RegisterForm is the sign-up form
type RegisterForm struct {
	Username string
	Password string
	Confirm  string
	Name     string
	Email    string
}

// Validate checks the form without touching the network
func (f RegisterForm) Validate() error {
	if err := utils.ValidateRequired("username", f.Username); err != nil {
		return invalid("username", err)
	}
	if err := utils.ValidateRequired("password", f.Password); err != nil {
		return invalid("password", err)
	}
	if f.Password != f.Confirm {
		return invalid("confirm", errors.New("passwords do not match"))
	}
	if f.Email != "" {
		if err := utils.ValidateEmail(f.Email); err != nil {
			return invalid("email", err)
		}
	}
	return nil
}

// RegisterView is the sign-up screen
type RegisterView struct {
	session *session.Session
	auth    port.AuthAPI
	logger  *zap.Logger
}

// NewRegisterView creates a new RegisterView
func NewRegisterView(s *session.Session, auth port.AuthAPI, logger *zap.Logger) *RegisterView {
	return &RegisterView{session: s, auth: auth, logger: logger}
}

// Submit creates the account. When the backend hands back tokens the new
// user is signed in directly, otherwise they are sent to the login screen.
func (v *RegisterView) Submit(ctx context.Context, form RegisterForm) (session.Route, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return session.RouteLogin, err
	}

	resp, err := v.auth.Register(ctx, entity.Registration{
		Username: form.Username,
		Password: form.Password,
		Name:     utils.SanitizeString(form.Name),
		Email:    form.Email,
	})
	if err != nil {
		v.logger.Warn("Registration failed", zap.String("username", form.Username), zap.Error(err))
		return session.RouteLogin, err
	}

	if resp.Access == "" {
		return session.RouteLogin, nil
	}
	if err := v.session.Establish(ctx, resp); err != nil {
		return session.RouteLogin, err
	}
	return landingRoute(resp.User), nil
}

func landingRoute(user entity.User) session.Route {
	if user.IsAdmin() {
		return session.RouteAdminDashboard
	}
	return session.RouteHome
}
