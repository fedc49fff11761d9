package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasscodeMismatch = errors.New("passcode mismatch")

// PasscodeVerifier compares a supplied passcode with a configured one.
type PasscodeVerifier interface {
	Compare(expected string, supplied string) error
}

// PasscodeMatcher accepts either plain or bcrypt-hashed configured passcodes.
type PasscodeMatcher struct{}

// NewPasscodeMatcher creates PasscodeMatcher.
func NewPasscodeMatcher() *PasscodeMatcher {
	return &PasscodeMatcher{}
}

// Compare checks supplied against expected. An empty expected value never matches.
func (m *PasscodeMatcher) Compare(expected string, supplied string) error {
	if expected == "" {
		return ErrPasscodeMismatch
	}
	if isBcryptHash(expected) {
		if err := bcrypt.CompareHashAndPassword([]byte(expected), []byte(supplied)); err != nil {
			return ErrPasscodeMismatch
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) != 1 {
		return ErrPasscodeMismatch
	}
	return nil
}

func isBcryptHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
