package auth

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("role not allowed")

	ErrUnknownUser   = errors.New("username not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrInactive      = errors.New("account is inactive")

	ErrSessionInvalid = errors.New("session invalid or expired")
	ErrNotFound       = errors.New("account not found")
)
