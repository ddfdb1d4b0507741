package model

import (
	"errors"
	"fmt"

	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// Sentinel errors. The typed errors below unwrap to these so callers can
// classify with errors.Is without caring about the details.
var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrInvalidState           = errors.New("invalid state")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// NotFoundError is returned when no applicant matches an identifier.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("applicant %q not found", e.Identifier)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports input that is incomplete or out of range.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StateError reports an operation that is illegal in the loan's current status.
type StateError struct {
	Operation string
	Status    valueobject.LoanStatus
	Reason    string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s (loan status %s)", e.Operation, e.Reason, e.Status)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

func newValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
