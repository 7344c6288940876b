package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BCrypt is a bcrypt-based hasher for deployments whose stored credentials
// predate Argon2id. Cost follows bcrypt's bounds; zero selects
// bcrypt.DefaultCost.
type BCrypt struct {
	cost int
}

// NewBCrypt validates the cost factor and returns a ready hasher.
func NewBCrypt(cost int) (*BCrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &BCrypt{cost: cost}, nil
}

// Hash salts internally, so identical inputs produce distinct hashes.
func (b *BCrypt) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A structurally
// invalid hash is an error; a clean mismatch is (false, nil).
func (b *BCrypt) Verify(plaintext, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
