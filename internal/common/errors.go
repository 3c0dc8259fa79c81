// Package common defines shared sentinel errors used across the
// authentication service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Infrastructure failures. Kept distinct from the domain taxonomy below
	// so transports can map them to different status codes.
	ErrorInternal = errors.New("internal error")

	// Domain taxonomy reported to callers.
	ErrDuplicateAccount      = errors.New("account already exists")
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidActivationLink = errors.New("invalid activation link")
	ErrUnauthenticated       = errors.New("unauthenticated")

	// Token errors (invalid, malformed or expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
