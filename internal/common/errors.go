// Package common defines shared constants and sentinel errors used across
// the portfolio server and its admin tooling. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrStoreUnavailable marks infrastructure failures of a backing store
	// (unreachable, timed out, rejected the command). It is never used for
	// absence.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPartialFailure is matched by bulk operations that stored only part
	// of their input.
	ErrPartialFailure = errors.New("partial failure")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
