package services

import (
	"errors"
	"fmt"
)

// Workflow error taxonomy. Authorization and not-found errors abort before any
// mutation; validation errors abort before mutation; ErrAlreadyAssigned is an
// informational outcome rather than a failure; ErrStaleState signals a lost
// optimistic-lock race and must be retried against the new state.
var (
	ErrNotAuthorized     = errors.New("caller lacks theme or global scope")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyAssigned   = errors.New("reviewer already assigned")
	ErrDeadlinePassed    = errors.New("revision deadline has passed")
	ErrSelfAssignment    = errors.New("cannot assign a review to yourself")
	ErrStaleState        = errors.New("abstract was modified concurrently")
)

// invalidTransition wraps ErrInvalidTransition with the concrete reason.
func invalidTransition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}
