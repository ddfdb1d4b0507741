package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/event"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// LoanStateMachine drives an applicant's loan through apply, assess and
// review. Every operation takes a snapshot and returns a new Applicant; on
// error the input is returned unchanged and nothing should be persisted.
type LoanStateMachine struct {
	engine *RiskAssessmentEngine
}

// NewLoanStateMachine creates a state machine backed by engine.
func NewLoanStateMachine(engine *RiskAssessmentEngine) *LoanStateMachine {
	if engine == nil {
		engine = NewRiskAssessmentEngine()
	}
	return &LoanStateMachine{engine: engine}
}

// Apply moves none/declined to pending_assessment. The status guard runs
// before profile and input validation.
func (m *LoanStateMachine) Apply(a model.Applicant, amount decimal.Decimal, purpose string, now time.Time) (model.Applicant, error) {
	if !valueobject.CanFire(a.LoanStatus(), valueobject.LoanEventApply) {
		return a, &model.StateError{
			Operation: "apply for loan",
			Status:    a.LoanStatus(),
			Reason:    "applicant already has a pending or approved loan application",
		}
	}
	if !a.ProfileComplete() {
		return a, &model.ValidationError{Reason: "applicant profile is incomplete, submit a financial profile before applying for a loan"}
	}
	if !amount.IsPositive() {
		return a, &model.ValidationError{Reason: "loan amount must be positive"}
	}
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return a, &model.ValidationError{Reason: "loan purpose is required"}
	}

	return a.ApplyForLoan(amount, purpose, now)
}

// RunAssessment classifies a pending application and records the outcome.
func (m *LoanStateMachine) RunAssessment(a model.Applicant, now time.Time) (model.Applicant, AssessmentResult, error) {
	result, err := m.engine.Assess(a, now)
	if err != nil {
		return a, AssessmentResult{}, err
	}

	status := result.ResultingStatus()
	loan := a.Loan()
	events := []event.DomainEvent{
		event.NewRiskAssessed(a.ID(), event.RiskAssessedDetails{
			RiskLevel:        result.RiskLevel.String(),
			Recommendation:   result.Recommendation.String(),
			CreditScoreCheck: result.CreditScoreCheck.String(),
			DTIRatioCheck:    result.DTIRatioCheck.String(),
			DTIRatio:         result.DTIRatio,
			FraudFlags:       valueobject.FraudFlagStrings(result.FraudFlags),
			LoanStatus:       status.String(),
		}, now),
	}
	switch {
	case status.Equal(valueobject.LoanStatusApproved):
		events = append(events, event.NewLoanApproved(a.ID(), loan.Amount, loan.Purpose, event.SourceAssessment, now))
	case status.Equal(valueobject.LoanStatusDeclined):
		events = append(events, event.NewLoanDeclined(a.ID(), loan.Amount, loan.Purpose, event.SourceAssessment, now))
	default:
		events = append(events, event.NewLoanReferredForReview(a.ID(), loan.Amount, loan.Purpose, now))
	}

	next, err := a.RecordAssessment(result.Recommendation, status, result.AssessedDate, events...)
	if err != nil {
		return a, AssessmentResult{}, err
	}
	return next, result, nil
}

// ManualReview settles a pending_review application with decision, which
// must be approved or declined.
func (m *LoanStateMachine) ManualReview(a model.Applicant, decision valueobject.LoanStatus, now time.Time) (model.Applicant, error) {
	if !decision.Equal(valueobject.LoanStatusApproved) && !decision.Equal(valueobject.LoanStatusDeclined) {
		return a, &model.ValidationError{Reason: "decision must be approved or declined"}
	}

	ra, assessed := a.RiskAssessment()
	if !assessed ||
		!ra.Recommendation.Equal(valueobject.RecommendationProceedWithCaution) ||
		!a.LoanStatus().Equal(valueobject.LoanStatusPendingReview) {
		return a, &model.StateError{
			Operation: "review loan application",
			Status:    a.LoanStatus(),
			Reason:    "loan application cannot be manually reviewed: it has not been assessed or did not require manual intervention",
		}
	}

	return a.RecordReview(decision, now)
}
