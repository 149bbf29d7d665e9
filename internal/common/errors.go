// Package common holds sentinel errors shared between services, repositories
// and the HTTP layer. The HTTP layer maps these to response codes in exactly
// one place; everything below it wraps them with context via %w.
package common

import "errors"

var (

	// repository specific errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// authentication errors
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")

	// two-factor errors
	ErrInvalidTwoFactorCode = errors.New("invalid 2fa code")
	ErrTwoFactorNotSetUp    = errors.New("2fa setup has not been run")

	// vault unlock errors. A wrong share password is deliberately distinct
	// from ErrInvalidCredentials: the unlock path has no user identity.
	ErrPasswordRequired = errors.New("password required")
	ErrWrongPassword    = errors.New("wrong password")

	// validation errors
	ErrValidation = errors.New("validation error")

	// downstream errors
	ErrInternal = errors.New("internal error")
)
