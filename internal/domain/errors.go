package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// Login failures. ErrNotActivated is only ever returned after the
	// supplied password matched, so it discloses nothing to callers who
	// don't already hold the correct credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotActivated       = errors.New("account not activated")

	// Signup duplicate kinds, distinguished per unique index.
	ErrDuplicateLogin = errors.New("login already exists")
	ErrDuplicateEmail = errors.New("email already exists")

	// Token failures. ErrTokenNotFound and ErrTokenExpired exist for
	// internal diagnostics only; the workflow collapses both to
	// ErrInvalidToken before they can reach a caller.
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenExists   = errors.New("token id already exists")
	ErrInvalidToken  = errors.New("invalid or expired token")

	// ErrMalformedHash means a stored password hash could not be parsed.
	// It is a data-integrity fault, never to be treated as a mismatch.
	ErrMalformedHash = errors.New("malformed password hash")
)
