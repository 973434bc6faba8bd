package domain

import (
	"context"
	"time"
)

// AuthToken is a single-use, time-limited grant bound to a user. Its id is
// an unguessable random value that acts as a bearer capability: whoever
// presents it before expiry may activate the account or reset the password.
type AuthToken struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the token's expiry is strictly in the future.
// Consumption state is not tracked here: a consumed token is a deleted row.
func (t *AuthToken) Valid(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// TokenRepository defines persistence operations for auth tokens.
//
// Consume must be atomic with respect to concurrent consumers of the same
// id: when two requests present the same token, exactly one gets the row
// and the other gets ErrNotFound.
type TokenRepository interface {
	Create(ctx context.Context, token *AuthToken) error
	GetByID(ctx context.Context, id string) (*AuthToken, error)
	Delete(ctx context.Context, id string) error
	Consume(ctx context.Context, id string) (*AuthToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
