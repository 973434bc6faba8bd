package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mvanek/accountd/internal/domain"
	"github.com/mvanek/accountd/internal/service"
)

const testSessionSecret = "test-secret-key-for-unit-tests"

func TestSessionManager_IssueAndVerify(t *testing.T) {
	sessions := service.NewSessionManager(testSessionSecret, time.Hour)

	user := &domain.User{ID: 42, Login: "alice"}
	token, err := sessions.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user ID 42, got %d", userID)
	}
}

func TestSessionManager_Verify_Garbage(t *testing.T) {
	sessions := service.NewSessionManager(testSessionSecret, time.Hour)

	_, err := sessions.Verify("not-a-valid-jwt")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionManager_Verify_Tampered(t *testing.T) {
	sessions := service.NewSessionManager(testSessionSecret, time.Hour)

	token, err := sessions.Issue(&domain.User{ID: 7, Login: "bob"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip several characters in the signature.
	tampered := token[:len(token)-5] + "XXXXX"
	_, err = sessions.Verify(tampered)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
}

func TestSessionManager_Verify_WrongSecret(t *testing.T) {
	sessions := service.NewSessionManager(testSessionSecret, time.Hour)
	other := service.NewSessionManager("a-completely-different-secret", time.Hour)

	token, err := sessions.Issue(&domain.User{ID: 7, Login: "bob"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = other.Verify(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

func TestSessionManager_Verify_Expired(t *testing.T) {
	sessions := service.NewSessionManager(testSessionSecret, -time.Minute)

	token, err := sessions.Issue(&domain.User{ID: 7, Login: "bob"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = sessions.Verify(token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired session, got %v", err)
	}
}
