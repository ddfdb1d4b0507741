package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// IdentifierRequest addresses a single applicant by ID or email.
type IdentifierRequest struct {
	Identifier string `json:"-" validate:"required"`
}

// RegisterApplicantRequest creates an applicant record.
type RegisterApplicantRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=200"`
}

// AddressDTO is the wire form of a postal address.
type AddressDTO struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
}

// SubmitProfileRequest replaces an applicant's financial profile.
type SubmitProfileRequest struct {
	Identifier       string           `json:"-" validate:"required"`
	Address          *AddressDTO      `json:"address" validate:"required"`
	EmploymentStatus string           `json:"employmentStatus" validate:"required,oneof=employed unemployed self-employed student"`
	MonthlyIncome    *decimal.Decimal `json:"monthlyIncome" validate:"required,gte=0,cents"`
	MonthlyDebt      *decimal.Decimal `json:"monthlyDebt" validate:"required,gte=0,cents"`
}

// ApplyForLoanRequest carries the loan terms an applicant asks for.
type ApplyForLoanRequest struct {
	Identifier string           `json:"-" validate:"required"`
	Amount     *decimal.Decimal `json:"amount" validate:"required,gt=0,cents"`
	Purpose    string           `json:"purpose" validate:"required"`
}

// ReviewLoanRequest carries an administrator's manual decision.
type ReviewLoanRequest struct {
	Identifier string `json:"-" validate:"required"`
	Decision   string `json:"decision" validate:"required,oneof=approved declined"`
}

// SetCreditScoreRequest records an externally sourced credit score.
type SetCreditScoreRequest struct {
	Identifier  string `json:"-" validate:"required"`
	CreditScore int    `json:"creditScore" validate:"required,min=300,max=850"`
}

// SetFraudStatusRequest records an externally sourced fraud indicator.
type SetFraudStatusRequest struct {
	Identifier string `json:"-" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=high low"`
}

// ListRequest carries pagination and an optional status filter.
// SortBy has the form "field:asc" or "field:desc".
type ListRequest struct {
	Status string `json:"status"`
	SortBy string `json:"sortBy"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Page   int    `json:"page" validate:"omitempty,min=1"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// LoanDetailsDTO is the loan sub-record of an applicant.
type LoanDetailsDTO struct {
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
	Purpose string          `json:"purpose,omitempty"`
}

// RiskAssessmentDTO is the last recorded assessment.
type RiskAssessmentDTO struct {
	Recommendation string    `json:"recommendation"`
	AssessedDate   time.Time `json:"assessedDate"`
}

// ApplicantResponse is the external representation of an applicant.
type ApplicantResponse struct {
	ID               string             `json:"id"`
	Email            string             `json:"email"`
	Name             string             `json:"name"`
	CreditScore      int                `json:"creditScore"`
	EmploymentStatus string             `json:"employmentStatus,omitempty"`
	MonthlyIncome    decimal.Decimal    `json:"monthlyIncome"`
	MonthlyDebt      decimal.Decimal    `json:"monthlyDebt"`
	FraudStatus      string             `json:"fraudStatus"`
	Address          *AddressDTO        `json:"address,omitempty"`
	LoanDetails      LoanDetailsDTO     `json:"loanDetails"`
	RiskAssessment   *RiskAssessmentDTO `json:"riskAssessment,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// FraudScoreResponse answers a fraud-score lookup.
type FraudScoreResponse struct {
	UserID      string `json:"userId"`
	FraudStatus string `json:"fraudStatus"`
}

// CreditScoreResponse answers a credit-score lookup.
type CreditScoreResponse struct {
	UserID      string `json:"userId"`
	CreditScore int    `json:"creditScore"`
}

// ApplyForLoanResponse acknowledges a submitted application.
type ApplyForLoanResponse struct {
	UserID  string `json:"userId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AssessmentChecks lists the individual check outcomes.
type AssessmentChecks struct {
	CreditScoreCheck string          `json:"creditScoreCheck"`
	DTIRatioCheck    string          `json:"dtiRatioCheck"`
	DTIRatio         decimal.Decimal `json:"dtiRatio"`
	FraudFlags       []string        `json:"fraudFlags"`
}

// AssessmentResponse is the full outcome of an assessment run.
type AssessmentResponse struct {
	UserID         string           `json:"userId"`
	RiskLevel      string           `json:"riskLevel"`
	Recommendation string           `json:"recommendation"`
	LoanStatus     string           `json:"loanStatus"`
	Assessment     AssessmentChecks `json:"assessment"`
	AssessedDate   time.Time        `json:"assessedDate"`
}

// LoanDecisionResponse reports where an applicant's loan stands.
type LoanDecisionResponse struct {
	UserID         string          `json:"userId"`
	Status         string          `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Purpose        string          `json:"purpose,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
	AssessedDate   *time.Time      `json:"assessedDate,omitempty"`
}

// PageResponse is one page of applicants.
type PageResponse struct {
	Results      []ApplicantResponse `json:"results"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
	TotalPages   int                 `json:"totalPages"`
	TotalResults int                 `json:"totalResults"`
}
