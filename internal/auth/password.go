package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// HashingError reports a failure of the hashing primitive itself
// (randomness, oversized input), not a password mismatch.
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string { return "hash password: " + e.Err.Error() }
func (e *HashingError) Unwrap() error { return e.Err }

// PasswordHasher produces and checks salted bcrypt digests.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a randomized one-way digest of plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", &HashingError{Err: err}
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch or a
// malformed digest is false, never an error.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
