package usecase

import (
	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

func toApplicantResponse(a model.Applicant) dto.ApplicantResponse {
	loan := a.Loan()
	resp := dto.ApplicantResponse{
		ID:               a.ID(),
		Email:            a.Email(),
		Name:             a.Name(),
		CreditScore:      a.CreditScore(),
		EmploymentStatus: a.EmploymentStatus().String(),
		MonthlyIncome:    a.MonthlyIncome(),
		MonthlyDebt:      a.MonthlyDebt(),
		FraudStatus:      a.FraudStatus().String(),
		LoanDetails: dto.LoanDetailsDTO{
			Status:  loan.Status.String(),
			Amount:  loan.Amount,
			Purpose: loan.Purpose,
		},
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
	if addr, ok := a.Address(); ok {
		resp.Address = &dto.AddressDTO{
			Street:  addr.Street(),
			City:    addr.City(),
			State:   addr.State(),
			ZipCode: addr.ZipCode(),
		}
	}
	if ra, ok := a.RiskAssessment(); ok {
		resp.RiskAssessment = &dto.RiskAssessmentDTO{
			Recommendation: ra.Recommendation.String(),
			AssessedDate:   ra.AssessedDate,
		}
	}
	return resp
}

func toAssessmentResponse(a model.Applicant, r service.AssessmentResult) dto.AssessmentResponse {
	return dto.AssessmentResponse{
		UserID:         a.ID(),
		RiskLevel:      r.RiskLevel.String(),
		Recommendation: r.Recommendation.String(),
		LoanStatus:     a.LoanStatus().String(),
		Assessment: dto.AssessmentChecks{
			CreditScoreCheck: r.CreditScoreCheck.String(),
			DTIRatioCheck:    r.DTIRatioCheck.String(),
			DTIRatio:         r.DTIRatio.Round(2),
			FraudFlags:       valueobject.FraudFlagStrings(r.FraudFlags),
		},
		AssessedDate: r.AssessedDate,
	}
}

func toLoanDecisionResponse(a model.Applicant) dto.LoanDecisionResponse {
	loan := a.Loan()
	resp := dto.LoanDecisionResponse{
		UserID:  a.ID(),
		Status:  loan.Status.String(),
		Amount:  loan.Amount,
		Purpose: loan.Purpose,
	}
	if ra, ok := a.RiskAssessment(); ok {
		assessed := ra.AssessedDate
		resp.Recommendation = ra.Recommendation.String()
		resp.AssessedDate = &assessed
	}
	return resp
}

func toPageResponse(p port.ApplicantPage) dto.PageResponse {
	results := make([]dto.ApplicantResponse, 0, len(p.Applicants))
	for _, a := range p.Applicants {
		results = append(results, toApplicantResponse(a))
	}
	return dto.PageResponse{
		Results:      results,
		Page:         p.Page,
		Limit:        p.Limit,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
}
