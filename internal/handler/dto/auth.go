// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/validate"
)

// CredentialsRequest is the body for register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the public representation of a user: never the hash.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProfileView extends UserView with the creation timestamp.
type ProfileView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

// ProfileResponse wraps the profile view.
type ProfileResponse struct {
	User ProfileView `json:"user"`
}

// ErrorResponse is the body of every failure.
// Errors is populated only for field validation failures and carries
// one entry per violated rule.
type ErrorResponse struct {
	Message string                `json:"message"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
	// Detail carries the underlying error text in development mode
	// only; production responses never include it.
	Detail string `json:"error,omitempty"`
}

// ToUserView converts a User model to its public view.
func ToUserView(user *model.User) UserView {
	return UserView{
		ID:    user.ID,
		Email: user.Email,
	}
}

// ToProfileView converts a User model to its profile view.
func ToProfileView(user *model.User) ProfileView {
	return ProfileView{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
