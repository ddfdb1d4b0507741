package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RiskAssessmentEngine – deterministic loan risk classification
// ---------------------------------------------------------------------------

// Thresholds. Credit scores below the fail bound fail; scores below the
// borderline bound are borderline. DTI ratios above the fail bound fail;
// ratios above the borderline bound are borderline. Both DTI bounds are
// inclusive on the passing side.
const (
	CreditScoreFailBelow       = 600
	CreditScoreBorderlineBelow = 650
)

var (
	DTIFailAbove       = decimal.NewFromInt(40)
	DTIBorderlineAbove = decimal.NewFromInt(30)
)

// AssessmentResult is the full outcome of one assessment.
type AssessmentResult struct {
	AssessedDate     time.Time
	DTIRatio         decimal.Decimal
	RiskLevel        valueobject.RiskLevel
	Recommendation   valueobject.Recommendation
	CreditScoreCheck valueobject.CheckResult
	DTIRatioCheck    valueobject.CheckResult
	FraudFlags       []valueobject.FraudFlag
}

// ResultingStatus maps the recommendation to the loan status it leads to.
func (r AssessmentResult) ResultingStatus() valueobject.LoanStatus {
	switch {
	case r.Recommendation.Equal(valueobject.RecommendationDeny):
		return valueobject.LoanStatusDeclined
	case r.Recommendation.Equal(valueobject.RecommendationProceedWithCaution):
		return valueobject.LoanStatusPendingReview
	default:
		return valueobject.LoanStatusApproved
	}
}

// RiskAssessmentEngine classifies applicants. It is stateless and has no side effects.
type RiskAssessmentEngine struct{}

// NewRiskAssessmentEngine returns a new engine instance.
func NewRiskAssessmentEngine() *RiskAssessmentEngine {
	return &RiskAssessmentEngine{}
}

// Assess evaluates a pending application.
//
// Checks, in order:
//
//	credit score  <600 fail (flag), 600..649 borderline, else pass
//	DTI ratio     >40 fail (flag), >30 borderline, else pass
//	fraud status  high -> flag
//	employment    unemployed -> flag
//
// Any flag yields high/deny, else any borderline yields medium/
// proceed_with_caution, else low/proceed.
func (e *RiskAssessmentEngine) Assess(a model.Applicant, now time.Time) (AssessmentResult, error) {
	if !a.LoanStatus().Equal(valueobject.LoanStatusPendingAssessment) {
		return AssessmentResult{}, &model.StateError{
			Operation: "assess risk",
			Status:    a.LoanStatus(),
			Reason:    "no loan application is pending assessment",
		}
	}
	if !a.ProfileComplete() {
		return AssessmentResult{}, &model.ValidationError{Reason: "applicant profile is incomplete, cannot assess risk"}
	}

	dti, err := valueobject.DTIRatio(a.MonthlyDebt(), a.MonthlyIncome())
	if err != nil {
		return AssessmentResult{}, &model.ValidationError{Reason: err.Error()}
	}

	result := AssessmentResult{
		AssessedDate:     now,
		DTIRatio:         dti,
		CreditScoreCheck: valueobject.CheckResultPass,
		DTIRatioCheck:    valueobject.CheckResultPass,
		FraudFlags:       []valueobject.FraudFlag{},
	}

	switch score := a.CreditScore(); {
	case score < CreditScoreFailBelow:
		result.CreditScoreCheck = valueobject.CheckResultFail
		result.FraudFlags = append(result.FraudFlags, valueobject.FraudFlagLowCreditScore)
	case score < CreditScoreBorderlineBelow:
		result.CreditScoreCheck = valueobject.CheckResultBorderline
	}

	switch {
	case dti.GreaterThan(DTIFailAbove):
		result.DTIRatioCheck = valueobject.CheckResultFail
		result.FraudFlags = append(result.FraudFlags, valueobject.FraudFlagHighDTIRatio)
	case dti.GreaterThan(DTIBorderlineAbove):
		result.DTIRatioCheck = valueobject.CheckResultBorderline
	}

	if a.FraudStatus().Equal(valueobject.FraudStatusHigh) {
		result.FraudFlags = append(result.FraudFlags, valueobject.FraudFlagHighFraudStatus)
	}
	if a.EmploymentStatus().Equal(valueobject.EmploymentStatusUnemployed) {
		result.FraudFlags = append(result.FraudFlags, valueobject.FraudFlagUnemployedStatus)
	}

	switch {
	case len(result.FraudFlags) > 0:
		result.RiskLevel = valueobject.RiskLevelHigh
		result.Recommendation = valueobject.RecommendationDeny
	case result.CreditScoreCheck.Equal(valueobject.CheckResultBorderline),
		result.DTIRatioCheck.Equal(valueobject.CheckResultBorderline):
		result.RiskLevel = valueobject.RiskLevelMedium
		result.Recommendation = valueobject.RecommendationProceedWithCaution
	default:
		result.RiskLevel = valueobject.RiskLevelLow
		result.Recommendation = valueobject.RecommendationProceed
	}

	return result, nil
}
