package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrTrackingProvider = errors.New("tracking provider error")
	ErrPersistence      = errors.New("persistence error")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Error carries a human readable message alongside its kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports missing or invalid caller input.
func Validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// NotFound reports an empty lookup.
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// TrackingProvider reports an upstream tracking failure.
func TrackingProvider(message string) error {
	return &Error{Kind: ErrTrackingProvider, Message: message}
}

// Persistence wraps a store failure.
func Persistence(op string, err error) error {
	return &Error{Kind: ErrPersistence, Message: op, Err: err}
}

// Unauthorized reports a rejected passcode or token.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Message returns the human message of err, falling back to fallback when
// err is not one of ours.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
