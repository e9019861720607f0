package service

import (
	"errors"
	"fmt"

	"github.com/hrops/traveldesk/internal/validation"
)

var (
	// ErrNotFound is returned when the requested application does not exist.
	ErrNotFound = errors.New("application not found")

	// ErrForbidden is returned when the actor is not allowed to perform the
	// requested action on the application.
	ErrForbidden = errors.New("action not permitted for this actor")

	// ErrNotEditable is returned when a draft mutation targets an
	// application that already left the DRAFT state.
	ErrNotEditable = errors.New("application is no longer editable")

	// ErrClaimsNotOpen is returned when expense claims are filed before the
	// travel desk has processed the application.
	ErrClaimsNotOpen = errors.New("application is not accepting expense claims")
)

// ValidationError carries the full rule report of a submission that was
// refused because at least one blocking violation was found.
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	blocking := 0
	for _, fe := range e.Errors {
		if fe.Severity == validation.SeverityBlocking {
			blocking++
		}
	}
	return fmt.Sprintf("draft has %d blocking validation error(s)", blocking)
}
