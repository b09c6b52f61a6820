package store

import "errors"

// ErrNotFound is returned when a record does not exist or is not
// visible to the requesting owner.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken and ErrEmailTaken are returned when an insert trips
// the corresponding UNIQUE constraint.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)
