// Package businessflow contains the core business logic and use cases for the URL shortener
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials covers both an unknown email and a failed
	// password verification. The two cases are deliberately
	// indistinguishable so callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Short link errors
	ErrShortLinkNotFound     = errors.New("short link not found")
	ErrShortLinkUnauthorized = errors.New("short link access unauthorized")
	ErrShortCodeExhausted    = errors.New("short code generation attempts exhausted")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsShortLinkNotFound(err error) bool {
	return errors.Is(err, ErrShortLinkNotFound)
}

func IsShortLinkUnauthorized(err error) bool {
	return errors.Is(err, ErrShortLinkUnauthorized)
}

func IsShortCodeExhausted(err error) bool {
	return errors.Is(err, ErrShortCodeExhausted)
}
