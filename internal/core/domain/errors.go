package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned across a service boundary wraps exactly
// one of these so the transport layer can map it to a status code.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream unavailable")
)

// Credential refinements.
var (
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrUnauthenticated)
	ErrExpired          = fmt.Errorf("%w: credential expired", ErrUnauthenticated)
	ErrMalformed        = fmt.Errorf("%w: malformed credential", ErrUnauthenticated)
	ErrTempTokenInvalid = fmt.Errorf("%w: temporary token is invalid or expired", ErrUnauthenticated)
)

var (
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrCompanyNotFound = fmt.Errorf("company %w", ErrNotFound)
	ErrLinkCodeInvalid = fmt.Errorf("link code %w", ErrNotFound)
)

// ErrUserExists is returned by repositories when a user with the same
// external identity was inserted concurrently.
var ErrUserExists = errors.New("user already exists")

// InvalidInput builds an ErrInvalidInput carrying a client-facing message.
func InvalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// LoginError reports a persistence failure during the login handshake.
// The user may retry; the server does not.
type LoginError struct {
	Op  string
	Err error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed during %s: %v", e.Op, e.Err)
}

func (e *LoginError) Unwrap() error { return e.Err }
