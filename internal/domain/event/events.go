package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateApplicant = "Applicant"

// Event type names. Kafka topics are derived from these by the publisher.
const (
	TypeApplicantRegistered   = "loanrisk.applicant.registered"
	TypeProfileSubmitted      = "loanrisk.applicant.profile_submitted"
	TypeCreditScoreSet        = "loanrisk.applicant.credit_score_set"
	TypeFraudStatusSet        = "loanrisk.applicant.fraud_status_set"
	TypeLoanApplied           = "loanrisk.loan.applied"
	TypeRiskAssessed          = "loanrisk.loan.risk_assessed"
	TypeLoanApproved          = "loanrisk.loan.approved"
	TypeLoanDeclined          = "loanrisk.loan.declined"
	TypeLoanReferredForReview = "loanrisk.loan.referred_for_review"
	TypeLoanReviewed          = "loanrisk.loan.reviewed"
)

// ---------------------------------------------------------------------------
// Applicant events
// ---------------------------------------------------------------------------

// ApplicantRegistered is raised when a new applicant record is created.
type ApplicantRegistered struct {
	events.BaseEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewApplicantRegistered(applicantID, email, name string, now time.Time) ApplicantRegistered {
	return ApplicantRegistered{
		BaseEvent: events.NewBaseEvent(TypeApplicantRegistered, applicantID, aggregateApplicant, now),
		Email:     email,
		Name:      name,
	}
}

// ProfileSubmitted is raised when an applicant replaces their financial profile.
type ProfileSubmitted struct {
	events.BaseEvent
	EmploymentStatus string          `json:"employment_status"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	MonthlyDebt      decimal.Decimal `json:"monthly_debt"`
}

func NewProfileSubmitted(applicantID, employment string, income, debt decimal.Decimal, now time.Time) ProfileSubmitted {
	return ProfileSubmitted{
		BaseEvent:        events.NewBaseEvent(TypeProfileSubmitted, applicantID, aggregateApplicant, now),
		EmploymentStatus: employment,
		MonthlyIncome:    income,
		MonthlyDebt:      debt,
	}
}

// CreditScoreSet is raised when an administrator records a credit score.
type CreditScoreSet struct {
	events.BaseEvent
	Previous int `json:"previous"`
	Score    int `json:"score"`
}

func NewCreditScoreSet(applicantID string, previous, score int, now time.Time) CreditScoreSet {
	return CreditScoreSet{
		BaseEvent: events.NewBaseEvent(TypeCreditScoreSet, applicantID, aggregateApplicant, now),
		Previous:  previous,
		Score:     score,
	}
}

// FraudStatusSet is raised when an administrator records a fraud status.
type FraudStatusSet struct {
	events.BaseEvent
	FraudStatus string `json:"fraud_status"`
}

func NewFraudStatusSet(applicantID, status string, now time.Time) FraudStatusSet {
	return FraudStatusSet{
		BaseEvent:   events.NewBaseEvent(TypeFraudStatusSet, applicantID, aggregateApplicant, now),
		FraudStatus: status,
	}
}

// ---------------------------------------------------------------------------
// Loan workflow events
// ---------------------------------------------------------------------------

// LoanApplied is raised when an applicant enters the assessment queue.
type LoanApplied struct {
	events.BaseEvent
	Amount  decimal.Decimal `json:"amount"`
	Purpose string          `json:"purpose"`
}

func NewLoanApplied(applicantID string, amount decimal.Decimal, purpose string, now time.Time) LoanApplied {
	return LoanApplied{
		BaseEvent: events.NewBaseEvent(TypeLoanApplied, applicantID, aggregateApplicant, now),
		Amount:    amount,
		Purpose:   purpose,
	}
}

// RiskAssessed carries the full outcome of an automated assessment.
type RiskAssessed struct {
	events.BaseEvent
	RiskLevel        string          `json:"risk_level"`
	Recommendation   string          `json:"recommendation"`
	CreditScoreCheck string          `json:"credit_score_check"`
	DTIRatioCheck    string          `json:"dti_ratio_check"`
	DTIRatio         decimal.Decimal `json:"dti_ratio"`
	FraudFlags       []string        `json:"fraud_flags"`
	LoanStatus       string          `json:"loan_status"`
}

// RiskAssessedDetails groups the outcome fields of a RiskAssessed event.
type RiskAssessedDetails struct {
	RiskLevel        string
	Recommendation   string
	CreditScoreCheck string
	DTIRatioCheck    string
	DTIRatio         decimal.Decimal
	FraudFlags       []string
	LoanStatus       string
}

func NewRiskAssessed(applicantID string, d RiskAssessedDetails, now time.Time) RiskAssessed {
	return RiskAssessed{
		BaseEvent:        events.NewBaseEvent(TypeRiskAssessed, applicantID, aggregateApplicant, now),
		RiskLevel:        d.RiskLevel,
		Recommendation:   d.Recommendation,
		CreditScoreCheck: d.CreditScoreCheck,
		DTIRatioCheck:    d.DTIRatioCheck,
		DTIRatio:         d.DTIRatio,
		FraudFlags:       d.FraudFlags,
		LoanStatus:       d.LoanStatus,
	}
}

// LoanDecided is the payload shared by the approved, declined and
// referred-for-review events. Source says which step produced it.
type LoanDecided struct {
	events.BaseEvent
	Amount  decimal.Decimal `json:"amount"`
	Purpose string          `json:"purpose"`
	Source  string          `json:"source"`
}

// Decision sources.
const (
	SourceAssessment   = "assessment"
	SourceManualReview = "manual_review"
)

func NewLoanApproved(applicantID string, amount decimal.Decimal, purpose, source string, now time.Time) LoanDecided {
	return newLoanDecided(TypeLoanApproved, applicantID, amount, purpose, source, now)
}

func NewLoanDeclined(applicantID string, amount decimal.Decimal, purpose, source string, now time.Time) LoanDecided {
	return newLoanDecided(TypeLoanDeclined, applicantID, amount, purpose, source, now)
}

func NewLoanReferredForReview(applicantID string, amount decimal.Decimal, purpose string, now time.Time) LoanDecided {
	return newLoanDecided(TypeLoanReferredForReview, applicantID, amount, purpose, SourceAssessment, now)
}

func newLoanDecided(eventType, applicantID string, amount decimal.Decimal, purpose, source string, now time.Time) LoanDecided {
	return LoanDecided{
		BaseEvent: events.NewBaseEvent(eventType, applicantID, aggregateApplicant, now),
		Amount:    amount,
		Purpose:   purpose,
		Source:    source,
	}
}

// LoanReviewed is raised when an administrator settles a referred application.
type LoanReviewed struct {
	events.BaseEvent
	Decision string `json:"decision"`
}

func NewLoanReviewed(applicantID, decision string, now time.Time) LoanReviewed {
	return LoanReviewed{
		BaseEvent: events.NewBaseEvent(TypeLoanReviewed, applicantID, aggregateApplicant, now),
		Decision:  decision,
	}
}
