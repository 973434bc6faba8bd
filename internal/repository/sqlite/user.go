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

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (login, email, password_hash, activated, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Login, user.Email, user.PasswordHash, user.Activated, user.FirstName, user.LastName, now, now,
	)
	if err != nil {
		if dup := duplicateKind(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.get(ctx, "login = ?", login)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, login, email, password_hash, activated, first_name, last_name, created_at, updated_at
		 FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Login, &user.Email, &user.PasswordHash, &user.Activated,
		&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET login = ?, email = ?, password_hash = ?, activated = ?,
		 first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		user.Login, user.Email, user.PasswordHash, user.Activated,
		user.FirstName, user.LastName, now, user.ID,
	)
	if err != nil {
		if dup := duplicateKind(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	user.UpdatedAt = now
	return nil
}

// duplicateKind maps a SQLite unique constraint violation to the domain
// error for the violated index, or nil if err is something else.
func duplicateKind(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "unique constraint") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.login"):
		return domain.ErrDuplicateLogin
	case strings.Contains(msg, "users.email"):
		return domain.ErrDuplicateEmail
	default:
		return fmt.Errorf("unique constraint: %w", err)
	}
}
