package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A mismatch or a malformed
// hash is simply false. bcrypt compares in constant time.
func (h *PasswordHasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyHash returns a valid hash at the configured cost that no real
// password maps to. It is generated once, so verifying against it costs the
// same as verifying a stored hash.
func (h *PasswordHasher) DummyHash() string {
	h.dummyOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte("messagely:unknown-user"), h.cost)
		if err == nil {
			h.dummy = string(b)
		}
	})
	return h.dummy
}
