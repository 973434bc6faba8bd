package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mvanek/accountd/internal/domain"
)

// maxIssueAttempts bounds retries on token id collision. A collision of
// 128 random bits is astronomically unlikely; retrying keeps it from
// ever surfacing as a silent overwrite.
const maxIssueAttempts = 3

// TokenStore creates and consumes single-use, time-limited auth tokens.
type TokenStore struct {
	tokens domain.TokenRepository
	ttl    time.Duration
}

// NewTokenStore creates a TokenStore whose issued tokens expire after ttl.
func NewTokenStore(tokens domain.TokenRepository, ttl time.Duration) *TokenStore {
	return &TokenStore{tokens: tokens, ttl: ttl}
}

// Issue creates and persists a fresh token bound to the given user.
func (s *TokenStore) Issue(ctx context.Context, userID int64) (*domain.AuthToken, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		id, err := newTokenID()
		if err != nil {
			return nil, fmt.Errorf("generate token id: %w", err)
		}

		token := &domain.AuthToken{
			ID:        id,
			UserID:    userID,
			ExpiresAt: time.Now().UTC().Add(s.ttl),
		}
		err = s.tokens.Create(ctx, token)
		if errors.Is(err, domain.ErrTokenExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist token: %w", err)
		}
		return token, nil
	}
	return nil, fmt.Errorf("issue token: %d consecutive id collisions", maxIssueAttempts)
}

// Lookup returns the token if it exists, without consuming it. Callers
// must still check validity; existence and expiry are separate questions.
func (s *TokenStore) Lookup(ctx context.Context, id string) (*domain.AuthToken, error) {
	token, err := s.tokens.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return token, nil
}

// Consume atomically deletes and returns the token. With concurrent
// consumers of the same id, exactly one succeeds. An expired token is
// consumed but reported as ErrTokenExpired; a missing (never issued or
// already used) one as ErrTokenNotFound.
func (s *TokenStore) Consume(ctx context.Context, id string) (*domain.AuthToken, error) {
	token, err := s.tokens.Consume(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consume token: %w", err)
	}
	if !token.Valid(time.Now()) {
		return nil, domain.ErrTokenExpired
	}
	return token, nil
}

// Revoke removes a token without using it, superseding it. Revoking an
// absent token is a no-op.
func (s *TokenStore) Revoke(ctx context.Context, id string) error {
	return s.tokens.Delete(ctx, id)
}

// SweepExpired physically removes expired rows. Housekeeping only.
func (s *TokenStore) SweepExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now())
}

// newTokenID returns 128 random bits, hex encoded. The id is the sole
// secret in emailed capability URLs.
func newTokenID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
