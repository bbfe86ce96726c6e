package engine

import (
	"errors"
	"fmt"
)

// ErrAlreadyActive is returned by Start when a session is already open.
var ErrAlreadyActive = errors.New("a session is already active")

// ValidationError reports a trigger that references an unknown profile.
type ValidationError struct {
	ProfileKey string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unknown profile %q", e.ProfileKey)
}

// ConflictError reports a trigger that targets a different profile while
// another profile's session is active.
type ConflictError struct {
	ActiveProfileKey    string
	RequestedProfileKey string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("profile %q is active, refusing trigger for %q",
		e.ActiveProfileKey, e.RequestedProfileKey)
}

// EnforcementError reports a failure of the external enforcement capability.
// It is non-fatal: the session record is still created or closed.
type EnforcementError struct {
	Op  string
	Err error
}

func (e *EnforcementError) Error() string {
	return fmt.Sprintf("enforcement %s failed: %v", e.Op, e.Err)
}

func (e *EnforcementError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a session store write failure. The engine state is
// left consistent with the last successful write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflictError checks if an error is a ConflictError.
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
