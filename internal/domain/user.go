package domain

import (
	"context"
	"time"
)

// User is an identity record. Accounts start unactivated and become
// login-eligible once the owner proves control of the email address by
// consuming an activation token.
type User struct {
	ID           int64
	Login        string
	Email        string
	PasswordHash string
	Activated    bool
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the user's full name, falling back to the login.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Login
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	Update(ctx context.Context, user *User) error
}
