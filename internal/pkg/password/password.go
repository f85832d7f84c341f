package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooShort is returned for passwords under the minimum length
var ErrTooShort = errors.New("password must be at least 8 characters")

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword checks if password meets requirements
func ValidatePassword(password string) error {
	// Minimum 8 characters
	if len(password) < 8 {
		return ErrTooShort
	}
	return nil
}
