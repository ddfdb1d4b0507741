package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/event"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// Defaults applied to freshly registered applicants.
const (
	DefaultCreditScore = 550
	MinCreditScore     = 300
	MaxCreditScore     = 850
)

// LoanApplication is the loan portion of an applicant record.
type LoanApplication struct {
	Status  valueobject.LoanStatus
	Amount  decimal.Decimal
	Purpose string
}

// RiskAssessment records the most recent automated recommendation.
type RiskAssessment struct {
	Recommendation valueobject.Recommendation
	AssessedDate   time.Time
}

// Profile is the financial profile an applicant submits before applying.
type Profile struct {
	Address          valueobject.Address
	EmploymentStatus valueobject.EmploymentStatus
	MonthlyIncome    decimal.Decimal
	MonthlyDebt      decimal.Decimal
}

// ---------------------------------------------------------------------------
// Applicant aggregate root
// ---------------------------------------------------------------------------

// Applicant is an immutable aggregate. Every mutation returns a new copy.
type Applicant struct {
	id               string
	email            string
	name             string
	creditScore      int
	employmentStatus valueobject.EmploymentStatus
	monthlyIncome    decimal.Decimal
	monthlyDebt      decimal.Decimal
	fraudStatus      valueobject.FraudStatus
	address          *valueobject.Address
	loan             LoanApplication
	riskAssessment   *RiskAssessment
	version          int
	createdAt        time.Time
	updatedAt        time.Time
	domainEvents     []event.DomainEvent
}

// NewApplicant registers an applicant with an empty profile and no loan.
func NewApplicant(email, name string, now time.Time) (Applicant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Applicant{}, newValidationError("a valid email is required")
	}
	if strings.TrimSpace(name) == "" {
		return Applicant{}, newValidationError("name is required")
	}

	id := uuid.New().String()
	a := Applicant{
		id:            id,
		email:         email,
		name:          strings.TrimSpace(name),
		creditScore:   DefaultCreditScore,
		monthlyIncome: decimal.Zero,
		monthlyDebt:   decimal.Zero,
		fraudStatus:   valueobject.FraudStatusLow,
		loan: LoanApplication{
			Status: valueobject.LoanStatusNone,
			Amount: decimal.Zero,
		},
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
	a.domainEvents = append(a.domainEvents, event.NewApplicantRegistered(id, a.email, a.name, now))
	return a, nil
}

// ApplicantSnapshot carries every persisted field of an Applicant.
type ApplicantSnapshot struct {
	ID               string
	Email            string
	Name             string
	CreditScore      int
	EmploymentStatus valueobject.EmploymentStatus
	MonthlyIncome    decimal.Decimal
	MonthlyDebt      decimal.Decimal
	FraudStatus      valueobject.FraudStatus
	Address          *valueobject.Address
	Loan             LoanApplication
	RiskAssessment   *RiskAssessment
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReconstructApplicant rebuilds an aggregate from persistence without side-effects.
func ReconstructApplicant(s ApplicantSnapshot) Applicant {
	return Applicant{
		id:               s.ID,
		email:            s.Email,
		name:             s.Name,
		creditScore:      s.CreditScore,
		employmentStatus: s.EmploymentStatus,
		monthlyIncome:    s.MonthlyIncome,
		monthlyDebt:      s.MonthlyDebt,
		fraudStatus:      s.FraudStatus,
		address:          clonePtr(s.Address),
		loan:             s.Loan,
		riskAssessment:   clonePtr(s.RiskAssessment),
		version:          s.Version,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
	}
}

// Snapshot exports the persisted fields. Pointer fields are copies, so
// writing through them leaves the aggregate unchanged.
func (a Applicant) Snapshot() ApplicantSnapshot {
	return ApplicantSnapshot{
		ID:               a.id,
		Email:            a.email,
		Name:             a.name,
		CreditScore:      a.creditScore,
		EmploymentStatus: a.employmentStatus,
		MonthlyIncome:    a.monthlyIncome,
		MonthlyDebt:      a.monthlyDebt,
		FraudStatus:      a.fraudStatus,
		Address:          clonePtr(a.address),
		Loan:             a.loan,
		RiskAssessment:   clonePtr(a.riskAssessment),
		Version:          a.version,
		CreatedAt:        a.createdAt,
		UpdatedAt:        a.updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Profile and admin updates (each returns a new copy)
// ---------------------------------------------------------------------------

// SubmitProfile replaces the financial profile. It is accepted in any loan status.
func (a Applicant) SubmitProfile(p Profile, now time.Time) (Applicant, error) {
	if p.EmploymentStatus.IsZero() {
		return a, newValidationError("employment status is required")
	}
	if p.MonthlyIncome.IsNegative() {
		return a, newValidationError("monthly income must not be negative")
	}
	if p.MonthlyDebt.IsNegative() {
		return a, newValidationError("monthly debt must not be negative")
	}
	if p.Address.Street() == "" {
		return a, newValidationError("address is required")
	}

	next := a.mutate(now)
	addr := p.Address
	next.address = &addr
	next.employmentStatus = p.EmploymentStatus
	next.monthlyIncome = p.MonthlyIncome
	next.monthlyDebt = p.MonthlyDebt
	next.domainEvents = append(next.domainEvents, event.NewProfileSubmitted(
		a.id, p.EmploymentStatus.String(), p.MonthlyIncome, p.MonthlyDebt, now,
	))
	return next, nil
}

// SetCreditScore records an externally sourced credit score.
func (a Applicant) SetCreditScore(score int, now time.Time) (Applicant, error) {
	if score < MinCreditScore || score > MaxCreditScore {
		return a, newValidationError("credit score must be between %d and %d", MinCreditScore, MaxCreditScore)
	}
	next := a.mutate(now)
	next.creditScore = score
	next.domainEvents = append(next.domainEvents, event.NewCreditScoreSet(a.id, a.creditScore, score, now))
	return next, nil
}

// SetFraudStatus records an externally sourced fraud indicator.
func (a Applicant) SetFraudStatus(status valueobject.FraudStatus, now time.Time) (Applicant, error) {
	if status.IsZero() {
		return a, newValidationError("fraud status is required")
	}
	next := a.mutate(now)
	next.fraudStatus = status
	next.domainEvents = append(next.domainEvents, event.NewFraudStatusSet(a.id, status.String(), now))
	return next, nil
}

// ProfileComplete reports whether the applicant may apply or be assessed:
// address and employment present and a positive monthly income.
func (a Applicant) ProfileComplete() bool {
	return a.address != nil && !a.employmentStatus.IsZero() && a.monthlyIncome.IsPositive()
}

// ---------------------------------------------------------------------------
// Loan transitions. Guards live in the loan state machine; these methods
// re-check the transition table so the aggregate can never hold an illegal
// status even when called directly.
// ---------------------------------------------------------------------------

// ApplyForLoan moves the loan to pending_assessment with the given terms.
func (a Applicant) ApplyForLoan(amount decimal.Decimal, purpose string, now time.Time) (Applicant, error) {
	if err := valueobject.CheckTransition(a.loan.Status, valueobject.LoanEventApply, valueobject.LoanStatusPendingAssessment); err != nil {
		return a, &StateError{Operation: "apply for loan", Status: a.loan.Status, Reason: "applicant already has a pending or approved loan application"}
	}
	next := a.mutate(now)
	next.loan = LoanApplication{
		Status:  valueobject.LoanStatusPendingAssessment,
		Amount:  amount,
		Purpose: purpose,
	}
	next.domainEvents = append(next.domainEvents, event.NewLoanApplied(a.id, amount, purpose, now))
	return next, nil
}

// RecordAssessment stores the recommendation and moves the loan to status.
// The caller supplies the decided events so the aggregate stays ignorant of
// how the engine classifies.
func (a Applicant) RecordAssessment(
	recommendation valueobject.Recommendation,
	status valueobject.LoanStatus,
	assessedAt time.Time,
	events ...event.DomainEvent,
) (Applicant, error) {
	if err := valueobject.CheckTransition(a.loan.Status, valueobject.LoanEventAssess, status); err != nil {
		return a, &StateError{Operation: "assess risk", Status: a.loan.Status, Reason: "no loan application is pending assessment"}
	}
	if status.Equal(valueobject.LoanStatusPendingReview) != recommendation.Equal(valueobject.RecommendationProceedWithCaution) {
		return a, newValidationError("recommendation %s cannot lead to status %s", recommendation, status)
	}
	next := a.mutate(assessedAt)
	next.riskAssessment = &RiskAssessment{Recommendation: recommendation, AssessedDate: assessedAt}
	next.loan.Status = status
	next.domainEvents = append(next.domainEvents, events...)
	return next, nil
}

// RecordReview applies an administrator's decision to a referred application.
func (a Applicant) RecordReview(decision valueobject.LoanStatus, now time.Time) (Applicant, error) {
	if a.riskAssessment == nil || !a.riskAssessment.Recommendation.Equal(valueobject.RecommendationProceedWithCaution) {
		return a, &StateError{Operation: "review loan application", Status: a.loan.Status, Reason: "loan application cannot be manually reviewed"}
	}
	if err := valueobject.CheckTransition(a.loan.Status, valueobject.LoanEventReview, decision); err != nil {
		return a, &StateError{Operation: "review loan application", Status: a.loan.Status, Reason: "loan application cannot be manually reviewed"}
	}
	next := a.mutate(now)
	next.loan.Status = decision
	next.domainEvents = append(next.domainEvents, event.NewLoanReviewed(a.id, decision.String(), now))
	if decision.Equal(valueobject.LoanStatusApproved) {
		next.domainEvents = append(next.domainEvents, event.NewLoanApproved(a.id, a.loan.Amount, a.loan.Purpose, event.SourceManualReview, now))
	} else {
		next.domainEvents = append(next.domainEvents, event.NewLoanDeclined(a.id, a.loan.Amount, a.loan.Purpose, event.SourceManualReview, now))
	}
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a Applicant) ID() string                                     { return a.id }
func (a Applicant) Email() string                                  { return a.email }
func (a Applicant) Name() string                                   { return a.name }
func (a Applicant) CreditScore() int                               { return a.creditScore }
func (a Applicant) EmploymentStatus() valueobject.EmploymentStatus { return a.employmentStatus }
func (a Applicant) MonthlyIncome() decimal.Decimal                 { return a.monthlyIncome }
func (a Applicant) MonthlyDebt() decimal.Decimal                   { return a.monthlyDebt }
func (a Applicant) FraudStatus() valueobject.FraudStatus           { return a.fraudStatus }
func (a Applicant) Loan() LoanApplication                          { return a.loan }
func (a Applicant) LoanStatus() valueobject.LoanStatus             { return a.loan.Status }
func (a Applicant) Version() int                                   { return a.version }
func (a Applicant) CreatedAt() time.Time                           { return a.createdAt }
func (a Applicant) UpdatedAt() time.Time                           { return a.updatedAt }
func (a Applicant) DomainEvents() []event.DomainEvent              { return a.domainEvents }

// Address returns the address and whether one has been submitted.
func (a Applicant) Address() (valueobject.Address, bool) {
	if a.address == nil {
		return valueobject.Address{}, false
	}
	return *a.address, true
}

// RiskAssessment returns the last assessment and whether one exists.
func (a Applicant) RiskAssessment() (RiskAssessment, bool) {
	if a.riskAssessment == nil {
		return RiskAssessment{}, false
	}
	return *a.riskAssessment, true
}

// ClearEvents returns a copy with an empty event list (call after saving).
func (a Applicant) ClearEvents() Applicant {
	next := a
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// mutate returns a copy stamped with now whose event slice no longer aliases a's.
func (a Applicant) mutate(now time.Time) Applicant {
	next := a
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	return next
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src), len(src)+2)
	copy(dst, src)
	return dst
}
