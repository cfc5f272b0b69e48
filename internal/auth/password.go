// Package auth implements credential hashing, token issuance and
// verification, request identity resolution, and ownership checks.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a hasher at the production cost factor.
func NewHasher() *Hasher {
	return &Hasher{cost: bcryptCost}
}

// newHasherWithCost exists for tests that cannot afford the full cost.
func newHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash derives a salted hash from the plaintext password. Hashing the same
// password twice yields different hashes.
func (h *Hasher) Hash(password string) (string, error) {
	// bcrypt silently truncates beyond 72 bytes; reject instead.
	if len(password) > 72 {
		return "", errors.New("password exceeds 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A mismatch is (false, nil);
// the error return is reserved for malformed hashes.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare password hash: %w", err)
}
