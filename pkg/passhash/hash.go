package passhash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLen is the longest input bcrypt accepts.
const MaxPasswordLen = 72

var ErrPasswordTooLong = errors.New("password must not be more than 72 bytes long")

// Hasher produces and checks salted bcrypt hashes.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given bcrypt cost. Out of range costs fall back to bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// HashPassword returns a salted bcrypt hash. Two calls with the same input never return the same string.
func (h *Hasher) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLen {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash.
// A malformed or empty hash is a mismatch, never an error.
func (h *Hasher) VerifyPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
