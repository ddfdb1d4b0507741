package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/domain/event"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func mustAddress(t *testing.T) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress("1 Main St", "Springfield", "IL", "62701")
	require.NoError(t, err)
	return addr
}

func registered(t *testing.T) Applicant {
	t.Helper()
	a, err := NewApplicant("Penny@Example.com", "Penny", testNow)
	require.NoError(t, err)
	return a
}

func withProfile(t *testing.T, a Applicant, income, debt int64) Applicant {
	t.Helper()
	a, err := a.SubmitProfile(Profile{
		Address:          mustAddress(t),
		EmploymentStatus: valueobject.EmploymentStatusEmployed,
		MonthlyIncome:    decimal.NewFromInt(income),
		MonthlyDebt:      decimal.NewFromInt(debt),
	}, testNow)
	require.NoError(t, err)
	return a
}

func TestNewApplicant_Defaults(t *testing.T) {
	a := registered(t)

	assert.NotEmpty(t, a.ID())
	assert.Equal(t, "penny@example.com", a.Email())
	assert.Equal(t, DefaultCreditScore, a.CreditScore())
	assert.Equal(t, valueobject.FraudStatusLow, a.FraudStatus())
	assert.Equal(t, valueobject.LoanStatusNone, a.LoanStatus())
	assert.True(t, a.MonthlyIncome().IsZero())
	assert.True(t, a.EmploymentStatus().IsZero())
	assert.False(t, a.ProfileComplete())
	assert.Equal(t, 1, a.Version())

	_, hasAssessment := a.RiskAssessment()
	assert.False(t, hasAssessment)

	require.Len(t, a.DomainEvents(), 1)
	assert.Equal(t, event.TypeApplicantRegistered, a.DomainEvents()[0].EventType())
}

func TestNewApplicant_Validation(t *testing.T) {
	_, err := NewApplicant("not-an-email", "X", testNow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewApplicant("x@example.com", "  ", testNow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitProfile(t *testing.T) {
	a := registered(t).ClearEvents()
	next := withProfile(t, a, 5000, 1000)

	assert.True(t, next.ProfileComplete())
	addr, ok := next.Address()
	require.True(t, ok)
	assert.Equal(t, "Springfield", addr.City())
	assert.False(t, a.ProfileComplete(), "original must be unchanged")
	require.Len(t, next.DomainEvents(), 1)
	assert.Equal(t, event.TypeProfileSubmitted, next.DomainEvents()[0].EventType())
	assert.Empty(t, a.DomainEvents())
}

func TestSubmitProfile_ZeroIncomeIsIncomplete(t *testing.T) {
	a := withProfile(t, registered(t), 0, 0)
	assert.False(t, a.ProfileComplete())
}

func TestSubmitProfile_Rejects(t *testing.T) {
	a := registered(t)
	tests := []struct {
		name    string
		profile Profile
	}{
		{"missing employment", Profile{Address: mustAddress(t), MonthlyIncome: decimal.NewFromInt(1)}},
		{"negative income", Profile{Address: mustAddress(t), EmploymentStatus: valueobject.EmploymentStatusStudent, MonthlyIncome: decimal.NewFromInt(-1)}},
		{"negative debt", Profile{Address: mustAddress(t), EmploymentStatus: valueobject.EmploymentStatusStudent, MonthlyDebt: decimal.NewFromInt(-1)}},
		{"missing address", Profile{EmploymentStatus: valueobject.EmploymentStatusStudent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.SubmitProfile(tt.profile, testNow)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, a, got)
		})
	}
}

func TestSetCreditScore(t *testing.T) {
	a := registered(t)

	next, err := a.SetCreditScore(720, testNow)
	require.NoError(t, err)
	assert.Equal(t, 720, next.CreditScore())
	assert.Equal(t, DefaultCreditScore, a.CreditScore())

	for _, bad := range []int{299, 851, 0} {
		_, err := a.SetCreditScore(bad, testNow)
		assert.ErrorIs(t, err, ErrValidation, "score %d", bad)
	}
	for _, edge := range []int{300, 850} {
		_, err := a.SetCreditScore(edge, testNow)
		assert.NoError(t, err, "score %d", edge)
	}
}

func TestSetFraudStatus(t *testing.T) {
	next, err := registered(t).SetFraudStatus(valueobject.FraudStatusHigh, testNow)
	require.NoError(t, err)
	assert.Equal(t, valueobject.FraudStatusHigh, next.FraudStatus())

	_, err = registered(t).SetFraudStatus(valueobject.FraudStatus{}, testNow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyForLoan_StateGuard(t *testing.T) {
	a := withProfile(t, registered(t), 5000, 1000)

	applied, err := a.ApplyForLoan(decimal.NewFromInt(1000), "car", testNow)
	require.NoError(t, err)
	assert.Equal(t, valueobject.LoanStatusPendingAssessment, applied.LoanStatus())
	assert.Equal(t, "car", applied.Loan().Purpose)

	_, err = applied.ApplyForLoan(decimal.NewFromInt(1000), "car", testNow)
	var sErr *StateError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, valueobject.LoanStatusPendingAssessment, sErr.Status)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRecordAssessment_RejectsInconsistentOutcome(t *testing.T) {
	a := withProfile(t, registered(t), 5000, 1000)
	a, err := a.ApplyForLoan(decimal.NewFromInt(1000), "car", testNow)
	require.NoError(t, err)

	_, err = a.RecordAssessment(valueobject.RecommendationProceed, valueobject.LoanStatusPendingReview, testNow)
	assert.ErrorIs(t, err, ErrValidation)

	next, err := a.RecordAssessment(valueobject.RecommendationProceedWithCaution, valueobject.LoanStatusPendingReview, testNow)
	require.NoError(t, err)
	ra, ok := next.RiskAssessment()
	require.True(t, ok)
	assert.Equal(t, valueobject.RecommendationProceedWithCaution, ra.Recommendation)
	assert.Equal(t, testNow, ra.AssessedDate)
}

func TestRecordReview_RequiresCautionRecommendation(t *testing.T) {
	a := ReconstructApplicant(ApplicantSnapshot{
		ID:   "a-1",
		Loan: LoanApplication{Status: valueobject.LoanStatusPendingReview},
		RiskAssessment: &RiskAssessment{
			Recommendation: valueobject.RecommendationProceed,
		},
	})

	_, err := a.RecordReview(valueobject.LoanStatusApproved, testNow)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReconstructApplicant_RoundTripsSnapshot(t *testing.T) {
	a := withProfile(t, registered(t), 5000, 1000)
	rebuilt := ReconstructApplicant(a.Snapshot())

	assert.Equal(t, a.Snapshot(), rebuilt.Snapshot())
	assert.Empty(t, rebuilt.DomainEvents())
}

func TestSnapshot_DoesNotExposeInternalState(t *testing.T) {
	snap := withProfile(t, registered(t), 5000, 1000).Snapshot()
	snap.RiskAssessment = &RiskAssessment{Recommendation: valueobject.RecommendationProceedWithCaution, AssessedDate: testNow}
	a := ReconstructApplicant(snap)

	// Writes through the input snapshot do not reach the aggregate.
	snap.RiskAssessment.Recommendation = valueobject.RecommendationProceed
	other, err := valueobject.NewAddress("9 Elm St", "Shelbyville", "IL", "62565")
	require.NoError(t, err)
	*snap.Address = other

	// Nor do writes through an exported snapshot.
	out := a.Snapshot()
	out.RiskAssessment.Recommendation = valueobject.RecommendationDeny
	*out.Address = other

	ra, ok := a.RiskAssessment()
	require.True(t, ok)
	assert.Equal(t, valueobject.RecommendationProceedWithCaution, ra.Recommendation)
	addr, ok := a.Address()
	require.True(t, ok)
	assert.True(t, mustAddress(t).Equal(addr))
}

func TestErrors_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &NotFoundError{Identifier: "x"}, ErrNotFound)
	assert.ErrorIs(t, &ValidationError{Reason: "x"}, ErrValidation)
	assert.ErrorIs(t, &StateError{Operation: "x"}, ErrInvalidState)
	assert.Equal(t, `applicant "bob" not found`, (&NotFoundError{Identifier: "bob"}).Error())
}
