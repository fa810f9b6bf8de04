package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique business key is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput marks a missing or malformed client-supplied field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict reports a lost race on a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized means the operation needs an authenticated user.
	ErrUnauthorized = errors.New("unauthorized")
)
