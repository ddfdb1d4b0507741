package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type applicantFixture struct {
	creditScore int
	income      string
	debt        string
	fraud       valueobject.FraudStatus
	employment  valueobject.EmploymentStatus
	status      valueobject.LoanStatus
	assessment  *model.RiskAssessment
	noAddress   bool
}

func buildApplicant(t *testing.T, s applicantFixture) model.Applicant {
	t.Helper()

	if s.fraud.IsZero() {
		s.fraud = valueobject.FraudStatusLow
	}
	if s.employment.IsZero() {
		s.employment = valueobject.EmploymentStatusEmployed
	}
	if s.status.IsZero() {
		s.status = valueobject.LoanStatusPendingAssessment
	}
	if s.income == "" {
		s.income = "0"
	}
	if s.debt == "" {
		s.debt = "0"
	}

	var addr *valueobject.Address
	if !s.noAddress {
		a, err := valueobject.NewAddress("1 Main St", "Springfield", "IL", "62701")
		require.NoError(t, err)
		addr = &a
	}

	return model.ReconstructApplicant(model.ApplicantSnapshot{
		ID:               "applicant-1",
		Email:            "applicant@example.com",
		Name:             "Applicant",
		CreditScore:      s.creditScore,
		EmploymentStatus: s.employment,
		MonthlyIncome:    decimal.RequireFromString(s.income),
		MonthlyDebt:      decimal.RequireFromString(s.debt),
		FraudStatus:      s.fraud,
		Address:          addr,
		Loan: model.LoanApplication{
			Status:  s.status,
			Amount:  decimal.NewFromInt(10000),
			Purpose: "home improvement",
		},
		RiskAssessment: s.assessment,
		Version:        3,
		CreatedAt:      testNow.Add(-time.Hour),
		UpdatedAt:      testNow.Add(-time.Hour),
	})
}
