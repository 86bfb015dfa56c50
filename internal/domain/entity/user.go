package entity

import "strings"

// User is the account record the backend returns at login and from /profile/
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user lands on the admin dashboard
func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// DisplayName prefers the full name over the username
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Username
}

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request body
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// AuthResponse is returned by /login/ and /register/
type AuthResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
	User    User   `json:"user"`
}
