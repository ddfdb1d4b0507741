package valueobject

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidTransition is returned when a loan event is fired from a status
// that does not accept it, or towards a target the event cannot reach.
var ErrInvalidTransition = errors.New("invalid loan status transition")

// LoanEvent names a workflow step that moves a loan between statuses.
type LoanEvent string

const (
	LoanEventApply  LoanEvent = "apply"
	LoanEventAssess LoanEvent = "assess"
	LoanEventReview LoanEvent = "review"
)

// loanTransitions maps from -> event -> allowed targets.
var loanTransitions = map[LoanStatus]map[LoanEvent][]LoanStatus{
	LoanStatusNone: {
		LoanEventApply: {LoanStatusPendingAssessment},
	},
	LoanStatusDeclined: {
		LoanEventApply: {LoanStatusPendingAssessment},
	},
	LoanStatusPendingAssessment: {
		LoanEventAssess: {LoanStatusApproved, LoanStatusDeclined, LoanStatusPendingReview},
	},
	LoanStatusPendingReview: {
		LoanEventReview: {LoanStatusApproved, LoanStatusDeclined},
	},
}

// CanFire reports whether event is accepted while the loan is in from.
func CanFire(from LoanStatus, event LoanEvent) bool {
	_, ok := loanTransitions[from][event]
	return ok
}

// CheckTransition validates a single from -event-> to step against the table.
func CheckTransition(from LoanStatus, event LoanEvent, to LoanStatus) error {
	targets, ok := loanTransitions[from][event]
	if !ok {
		return fmt.Errorf("%w: %s not accepted in status %s", ErrInvalidTransition, event, from)
	}
	if !slices.Contains(targets, to) {
		return fmt.Errorf("%w: %s cannot move %s to %s", ErrInvalidTransition, event, from, to)
	}
	return nil
}
