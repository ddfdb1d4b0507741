package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents where an applicant's loan sits in the approval workflow.
type LoanStatus struct {
	value string
}

const (
	loanStatusNone              = "none"
	loanStatusPendingAssessment = "pending_assessment"
	loanStatusPendingReview     = "pending_review"
	loanStatusApproved          = "approved"
	loanStatusDeclined          = "declined"
)

var (
	LoanStatusNone              = LoanStatus{value: loanStatusNone}
	LoanStatusPendingAssessment = LoanStatus{value: loanStatusPendingAssessment}
	LoanStatusPendingReview     = LoanStatus{value: loanStatusPendingReview}
	LoanStatusApproved          = LoanStatus{value: loanStatusApproved}
	LoanStatusDeclined          = LoanStatus{value: loanStatusDeclined}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusNone:              LoanStatusNone,
	loanStatusPendingAssessment: LoanStatusPendingAssessment,
	loanStatusPendingReview:     LoanStatusPendingReview,
	loanStatusApproved:          LoanStatusApproved,
	loanStatusDeclined:          LoanStatusDeclined,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further automatic transition applies.
// Declined is terminal for the current application but allows re-application.
func (s LoanStatus) IsTerminal() bool {
	return s.value == loanStatusApproved || s.value == loanStatusDeclined
}
