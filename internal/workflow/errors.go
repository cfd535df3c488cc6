package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals the target entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates an invalid or missing session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a role or ownership guard failed.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict signals a uniqueness violation or a lost compare-and-swap race.
	ErrConflict = errors.New("conflict")
	// ErrValidation signals missing or malformed payload fields.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition signals the entity is not in the required
	// predecessor state, or the parent festival phase does not allow it.
	ErrInvalidTransition = errors.New("invalid transition")
)

// InvalidTransitionError carries the entity's current phase so callers can
// react without a second read.
type InvalidTransitionError struct {
	Entity  string
	Current string
	Action  Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s cannot %s from phase %s", e.Entity, e.Action, e.Current)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

func invalidTransition(entity string, current fmt.Stringer, action Action) error {
	return &InvalidTransitionError{Entity: entity, Current: current.String(), Action: action}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
