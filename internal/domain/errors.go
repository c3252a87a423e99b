package domain

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness constraint rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is returned for form values that fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfFollow         = errors.New("cannot follow yourself")
)
