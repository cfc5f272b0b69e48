// Package domain holds the core entities and the request/response shapes the
// services exchange with the transport layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Birthday     string    `json:"birthday"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the projection exposed to other users. It omits the email.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Age      int       `json:"age"`
	Birthday string    `json:"birthday"`
	Avatar   string    `json:"avatar,omitempty"`
}

// Public returns the projection of u safe to show to anyone.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Age: u.Age, Birthday: u.Birthday, Avatar: u.Avatar}
}

// CreateUserRequest registers a new account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Age      int    `json:"age" validate:"required,gt=0,lt=100"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

// UpdateUserRequest patches the caller's own profile. Nil fields stay
// untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Age      *int    `json:"age" validate:"omitempty,gt=0,lt=100"`
	Birthday *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}

// UpdatePasswordRequest replaces the caller's password. Possession of a valid
// access token is the only required proof.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is what login and refresh return.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
