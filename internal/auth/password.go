package auth

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPIN         = errors.New("invalid PIN")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrMalformedPIN       = errors.New("PIN must be 4 to 6 digits")
)

// HashCost is the bcrypt cost used for new hashes. Tests lower it to
// bcrypt.MinCost to keep hashing fast.
var HashCost = bcrypt.DefaultCost

// HashSecret returns the bcrypt hash of a password or PIN.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// CheckSecret reports whether secret matches hash. An empty hash never matches.
func CheckSecret(hash, secret string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// ValidatePassword checks if the password meets minimum requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// ValidatePIN checks that a time clock PIN is 4 to 6 digits.
func ValidatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return ErrMalformedPIN
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return ErrMalformedPIN
		}
	}
	return nil
}
