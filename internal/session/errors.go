package session

import (
	"errors"
	"fmt"
)

// ErrEmptyToken rejects a profile update that would leave a signed-in
// record without a credential.
var ErrEmptyToken = errors.New("session: token cannot be empty")

// AuthenticationError is a rejected login. Message is safe to show the user.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string { return e.Message }
func (e *AuthenticationError) Unwrap() error { return e.Err }

// RegistrationError is a rejected sign-up (duplicate account, validation).
type RegistrationError struct {
	Message string
	Err     error
}

func (e *RegistrationError) Error() string { return e.Message }
func (e *RegistrationError) Unwrap() error { return e.Err }

// NetworkError means the backend could not be reached at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach the server: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UserMessage returns the text to render inline for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	var regErr *RegistrationError
	if errors.As(err, &regErr) {
		return regErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Cannot reach the server. Check your connection and try again."
	}
	return err.Error()
}
