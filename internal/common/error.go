// Package common defines shared constants and sentinel errors used across
// the blog API layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorValidation = errors.New("validation error")
	ErrorInvalidID  = errors.New("invalid id")

	// Auth errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorEmailAlreadyExists = errors.New("email already in use")
	ErrInvalidToken         = errors.New("invalid token")

	// Ownership saga errors.
	ErrorOwnershipSync = errors.New("failed to update owner blog list")
	ErrorRemoval       = errors.New("failed to remove blog")
)
