package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. 12 keeps a verify call slow enough
// that brute-forcing a leaked hash is dominated by hashing cost.
const HashCost = 12

var (
	ErrEmptyPassword    = errors.New("cryptox: empty password")
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
)

// HashPassword generates a salted bcrypt hash of the plaintext password.
// The returned string is opaque; callers store it as-is.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// Returns ErrPasswordMismatch when the password does not match; any other
// error means the hash itself is unusable.
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}
