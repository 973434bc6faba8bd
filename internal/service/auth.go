package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mvanek/accountd/internal/domain"
	"github.com/mvanek/accountd/internal/password"
)

// AuthService orchestrates the account workflows: signup and activation,
// login, change-password and forgot/reset-password. Tokens are single-use
// and time-limited; the failure modes a caller can observe are deliberately
// coarser than the ones logged internally.
type AuthService struct {
	users    domain.UserRepository
	tokens   *TokenStore
	hasher   *password.Hasher
	notifier domain.Notifier
	baseURL  string
}

// NewAuthService creates a new AuthService. baseURL is the absolute URL
// prefix under which activation and reset capability links are served.
func NewAuthService(users domain.UserRepository, tokens *TokenStore, hasher *password.Hasher, notifier domain.Notifier, baseURL string) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		notifier: notifier,
		baseURL:  baseURL,
	}
}

// Signup creates an unactivated account and dispatches an activation link.
// Duplicate login and duplicate email surface distinctly.
func (s *AuthService) Signup(ctx context.Context, email, login, plaintext, confirm, firstName, lastName string) (*domain.User, error) {
	if email == "" || login == "" || plaintext == "" {
		return nil, fmt.Errorf("%w: email, login, and password are required", domain.ErrInvalidInput)
	}
	if err := validateNewPassword(plaintext, confirm); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Login:        login,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateLogin) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue activation token: %w", err)
	}

	s.dispatch(ctx, user, activationMail(user, s.activateURL(token.ID)))
	return user, nil
}

// Activate consumes an activation token and flips the account to
// activated. Whether the token never existed, was already used, or has
// expired, the caller sees the same ErrInvalidToken.
func (s *AuthService) Activate(ctx context.Context, tokenID string) (*domain.User, error) {
	token, err := s.tokens.Consume(ctx, tokenID)
	if err != nil {
		return nil, s.rejectToken("activation", tokenID, err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("activation token references missing user", "user_id", token.UserID)
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Activated = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("activate user: %w", err)
	}
	return user, nil
}

// Login verifies credentials. An unknown login and a wrong password both
// yield ErrInvalidCredentials. ErrNotActivated is only reachable once the
// password has matched, so it guides legitimate users without telling an
// attacker anything they don't already know.
func (s *AuthService) Login(ctx context.Context, login, plaintext string) (*domain.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Matches(user.PasswordHash, plaintext)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Activated {
		return nil, domain.ErrNotActivated
	}
	return user, nil
}

// ChangePassword overwrites the stored hash for an already-authenticated
// user. The session-layer precondition (the caller is who they claim) is
// enforced upstream.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, plaintext, confirm string) error {
	if err := validateNewPassword(plaintext, confirm); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ForgotPassword dispatches a reset link if the login exists. It returns
// nil either way: distinguishing "link sent" from "no such account" would
// let callers enumerate valid logins, and that must not be possible even
// for code talking to this service.
func (s *AuthService) ForgotPassword(ctx context.Context, login string) error {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Debug("password reset requested for unknown login")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	s.dispatch(ctx, user, resetMail(user, s.resetURL(token.ID)))
	return nil
}

// ResetPassword consumes a reset token and overwrites the stored hash.
// The token is gone before the new password is applied, so a concurrent
// submission of the same link observes it as invalid.
func (s *AuthService) ResetPassword(ctx context.Context, tokenID, plaintext, confirm string) (*domain.User, error) {
	if err := validateNewPassword(plaintext, confirm); err != nil {
		return nil, err
	}

	token, err := s.tokens.Consume(ctx, tokenID)
	if err != nil {
		return nil, s.rejectToken("reset", tokenID, err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("reset token references missing user", "user_id", token.UserID)
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.dispatch(ctx, user, passwordChangedMail(user))
	return user, nil
}

// rejectToken logs the precise failure kind and collapses it to the
// generic outcome callers are allowed to see.
func (s *AuthService) rejectToken(flow, tokenID string, err error) error {
	if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrTokenExpired) {
		slog.Info("token rejected", "flow", flow, "reason", err)
		return domain.ErrInvalidToken
	}
	return fmt.Errorf("%s token: %w", flow, err)
}

// dispatch sends a notification without letting delivery failure affect
// the surrounding workflow. Failures are an operator concern.
func (s *AuthService) dispatch(ctx context.Context, user *domain.User, m mail) {
	if err := s.notifier.Send(ctx, user.Email, m.subject, m.body); err != nil {
		slog.Error("send notification", "subject", m.subject, "user_id", user.ID, "error", err)
	}
}

func (s *AuthService) activateURL(tokenID string) string {
	return s.baseURL + "/api/auth/activate/" + tokenID
}

func (s *AuthService) resetURL(tokenID string) string {
	return s.baseURL + "/api/auth/reset/" + tokenID
}

func validateNewPassword(plaintext, confirm string) error {
	if plaintext == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if plaintext != confirm {
		return fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	if len(plaintext) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	return nil
}
