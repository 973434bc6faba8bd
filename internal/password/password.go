package password

import (
	"errors"
	"fmt"

	"github.com/mvanek/accountd/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured:
// 2^10 hashing rounds, slow enough to resist offline brute force while
// staying well under a second on commodity hardware.
const DefaultCost = 10

// Hasher produces and verifies bcrypt password hashes. Each hash embeds
// its own random salt and cost, so stored hashes remain verifiable after
// the configured cost changes.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost factor.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d outside [%d, %d]",
			domain.ErrInvalidInput, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash transforms a plaintext password into a stored hash. A fresh random
// salt is drawn on every call, so two hashes of the same plaintext differ.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Matches reports whether candidate verifies against the stored hash,
// using the salt and cost embedded in it. Comparison inside bcrypt is
// constant-time. A stored hash that cannot be parsed yields an error
// wrapping domain.ErrMalformedHash, never a silent false.
func (h *Hasher) Matches(stored, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrMalformedHash, err)
	}
}
