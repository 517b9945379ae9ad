package service

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by Login for an unknown username or a
// wrong password; the two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError reports bad or duplicate input. Value echoes the
// offending argument back to the caller.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UnauthorizedError is returned by gated mutations called without a
// logged-in user.
type UnauthorizedError struct {
	Op string
}

func (e *UnauthorizedError) Error() string {
	return e.Op + ": not authenticated"
}

// NotFoundError reports a lookup that matched nothing.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}
