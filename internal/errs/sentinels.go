// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized indicates the owned player does not exist for the calling user.
	// Callers must not be able to tell it apart from a missing row.
	ErrNotAuthorized = errors.New("player not owned by user")

	// ErrUnauthorized indicates failed authentication (bad token, unknown or inactive user).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., wallet taken).
	ErrAlreadyExists = errors.New("already exists")
)
