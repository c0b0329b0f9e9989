package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when the email unique constraint fails.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUsernameTaken is returned when the username unique constraint fails.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrStaleToken is returned when a conditional token update matched nothing.
	ErrStaleToken = errors.New("refresh token is no longer active")
	// ErrInvalidFormat is returned for malformed duration strings.
	ErrInvalidFormat = errors.New("invalid format")
)
