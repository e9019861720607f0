package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted in
	// the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGuardFailed is returned when every candidate transition for a
	// trigger was blocked by its guard.
	ErrGuardFailed = errors.New("guard condition failed")
)
