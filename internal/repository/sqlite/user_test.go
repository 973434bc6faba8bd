package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mvanek/accountd/internal/domain"
)

func newTestUser(login, email string) *domain.User {
	return &domain.User{
		Login:        login,
		Email:        email,
		PasswordHash: "hashedpw",
		FirstName:    "Test",
		LastName:     "User",
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := newTestUser("alice", "alice@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
	if user.Activated {
		t.Fatal("expected new user to be unactivated")
	}
}

func TestUserRepository_Create_DuplicateLogin(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	if err := repo.Create(ctx, newTestUser("dup", "first@example.com")); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := repo.Create(ctx, newTestUser("dup", "second@example.com"))
	if !errors.Is(err, domain.ErrDuplicateLogin) {
		t.Fatalf("expected ErrDuplicateLogin, got %v", err)
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	if err := repo.Create(ctx, newTestUser("first", "dup@example.com")); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := repo.Create(ctx, newTestUser("second", "dup@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetByLogin(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	created := newTestUser("bob", "bob@example.com")
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByLogin(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByLogin: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected ID %d, got %d", created.ID, got.ID)
	}
	if got.Email != "bob@example.com" {
		t.Fatalf("expected email bob@example.com, got %s", got.Email)
	}

	_, err = repo.GetByLogin(ctx, "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := newTestUser("carol", "carol@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	user.PasswordHash = "newhash"
	user.Activated = true
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "newhash" {
		t.Fatalf("expected updated hash, got %s", got.PasswordHash)
	}
	if !got.Activated {
		t.Fatal("expected user to be activated")
	}
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()

	ghost := newTestUser("ghost", "ghost@example.com")
	ghost.ID = 12345
	err := repo.Update(context.Background(), ghost)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
