package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mvanek/accountd/internal/domain"
)

// TokenRepository implements domain.TokenRepository using SQLite.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new SQLite-backed TokenRepository.
func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db.SqlDB}
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.AuthToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		token.ID, token.UserID, token.ExpiresAt.UTC(), now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "unique constraint") {
			return domain.ErrTokenExists
		}
		return fmt.Errorf("insert token: %w", err)
	}
	token.CreatedAt = now
	return nil
}

func (r *TokenRepository) GetByID(ctx context.Context, id string) (*domain.AuthToken, error) {
	token := &domain.AuthToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, created_at FROM auth_tokens WHERE id = ?`, id,
	).Scan(&token.ID, &token.UserID, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query token by id: %w", err)
	}
	return token, nil
}

// Delete removes a token. Deleting an absent token is not an error.
func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Consume deletes the token and returns it in one statement. With two
// concurrent consumers of the same id, the RETURNING clause guarantees
// exactly one sees the row; the other gets domain.ErrNotFound.
func (r *TokenRepository) Consume(ctx context.Context, id string) (*domain.AuthToken, error) {
	token := &domain.AuthToken{}
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM auth_tokens WHERE id = ? RETURNING id, user_id, expires_at, created_at`, id,
	).Scan(&token.ID, &token.UserID, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("consume token: %w", err)
	}
	return token, nil
}

// DeleteExpired removes tokens whose expiry is at or before now. This is
// housekeeping only; expired tokens are already rejected at lookup.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE expires_at <= ?`, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return affected, nil
}
